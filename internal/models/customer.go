package models

// CustomerID is generated by the store on insert.
type CustomerID int64

type Customer struct {
	ID    CustomerID
	Name  string
	Email string
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CustomerResponse struct {
	ID    CustomerID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}
