package dto

// DepartmentRequest is the body of create and update calls.
type DepartmentRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DepartmentResponse is the wire form of a department.
type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}
