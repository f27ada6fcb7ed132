package domain

// Caller is the verified identity behind a request. Handlers build it from the
// identity token and pass it explicitly into every service call.
type Caller struct {
	UID   string
	Email string
	Name  string
}

func (c Caller) Authenticated() bool {
	return c.UID != ""
}
