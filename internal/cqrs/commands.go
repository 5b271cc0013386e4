package cqrs

// CreateAccountCommand carries the decoded JSON body of a create request.
type CreateAccountCommand struct {
	Data map[string]any
}

// UpdateAccountCommand replaces the mutable fields of account ID with Data.
type UpdateAccountCommand struct {
	ID   int64
	Data map[string]any
}

type DeleteAccountCommand struct {
	ID int64
}
