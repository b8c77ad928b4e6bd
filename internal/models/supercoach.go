package models

// SuperCoachStatus is the UI label derived from the active flag
type SuperCoachStatus string

const (
	SuperCoachOnline  SuperCoachStatus = "online"
	SuperCoachOffline SuperCoachStatus = "offline"
)

// SuperCoach is an AI coach persona conversations are held with
type SuperCoach struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Specialty   string `json:"specialty" yaml:"specialty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IsActive    bool   `json:"is_active" yaml:"is_active"`
}

func (c SuperCoach) Status() SuperCoachStatus {
	if c.IsActive {
		return SuperCoachOnline
	}
	return SuperCoachOffline
}

// FindSuperCoach returns the supercoach with id, or nil
func FindSuperCoach(coaches []SuperCoach, id string) *SuperCoach {
	for i := range coaches {
		if coaches[i].ID == id {
			return &coaches[i]
		}
	}
	return nil
}
