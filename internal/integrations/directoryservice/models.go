package directoryservice

// Doctor врач из справочника
type Doctor struct {
	ID       string `json:"id"`
	ClinicID string `json:"clinic_id"`
	FullName string `json:"full_name,omitempty"`
}
