package domain

// Department groups users and tickets. Membership is derived by filtering
// users/tickets on DepartmentID, never stored redundantly.
type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
