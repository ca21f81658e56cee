package availability

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

const allDates = "*"

// DefaultTTL время жизни записи, если ttl не задан
const DefaultTTL = time.Minute

// ErrInvalidSize возвращается при неположительном размере кэша
var ErrInvalidSize = errors.New("availability cache: size must be positive")

// Cache LRU кэш ответов на запросы свободных слотов врача
// nil *Cache работает как выключенный кэш
//
// Запись, прочитанная из БД до инвалидации, не должна попасть в кэш после нее.
// Поэтому читатель берет Version до запроса в БД и передает его в Set:
// если врача (или весь кэш) за это время инвалидировали, Set ничего не делает.
// TTL ограничивает устаревание на случай изменений в обход сервиса.
type Cache struct {
	lru *expirable.LRU[string, []domain.Slot]

	mu          sync.Mutex
	seq         uint64
	invalidated map[string]uint64 // врач -> seq последней инвалидации
	purgedAt    uint64
}

// New создает кэш на size записей с временем жизни ttl
func New(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		lru:         expirable.NewLRU[string, []domain.Slot](size, nil, ttl),
		invalidated: make(map[string]uint64),
	}, nil
}

func key(doctorID string, date *time.Time, today time.Time) string {
	d := allDates
	if date != nil {
		d = domain.FormatDate(*date)
	}
	return doctorID + "|" + d + "|" + domain.FormatDate(today)
}

// Version метка состояния кэша, которую нужно взять до чтения из БД
func (c *Cache) Version() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Get возвращает копию закэшированного списка
func (c *Cache) Get(doctorID string, date *time.Time, today time.Time) ([]*domain.Slot, bool) {
	if c == nil {
		return nil, false
	}
	cached, ok := c.lru.Get(key(doctorID, date, today))
	if !ok {
		return nil, false
	}
	out := make([]*domain.Slot, len(cached))
	for i := range cached {
		s := cached[i]
		out[i] = &s
	}
	return out, true
}

// Set сохраняет копию списка, если после version врача не инвалидировали
// Возвращает false, если список устарел и не сохранен (выключенный кэш ничего не отклоняет)
func (c *Cache) Set(doctorID string, date *time.Time, today time.Time, version uint64, slots []*domain.Slot) bool {
	if c == nil {
		return true
	}
	stored := make([]domain.Slot, len(slots))
	for i, s := range slots {
		stored[i] = *s
	}

	// Проверка и запись под одним мьютексом, иначе инвалидация может вклиниться между ними
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.invalidated[doctorID] > version || c.purgedAt > version {
		return false
	}
	c.lru.Add(key(doctorID, date, today), stored)
	return true
}

// InvalidateDoctor удаляет все записи врача
func (c *Cache) InvalidateDoctor(doctorID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.invalidated[doctorID] = c.seq

	prefix := doctorID + "|"
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
}

// Purge очищает кэш целиком
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.purgedAt = c.seq
	// Метки врачей перекрыты purgedAt
	c.invalidated = make(map[string]uint64)
	c.lru.Purge()
}

// Len количество записей
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
