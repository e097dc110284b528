package auth

// User is an API-key principal: an integration (or the owner dashboard)
// identified by its key, with per-resource endpoint access.
type User struct {
	APIKey         string            `json:"api_key"`
	App            string            `json:"app"`
	EndpointAccess map[string]Access `json:"endpoint_access"`
	IsActive       bool              `json:"is_active"`
	Warehouses     []int             `json:"warehouses,omitempty"`
}

// Access describes what a key may do on one resource. The "full" map key
// with Full set grants everything.
type Access struct {
	Full   bool `json:"full,omitempty"`
	All    bool `json:"all"`    // GET collection
	Single bool `json:"single"` // GET by id
	Create bool `json:"create"` // POST
	Update bool `json:"update"` // PUT
	Delete bool `json:"delete"` // DELETE
}

// IsFull reports whether the user has unrestricted access.
func (u User) IsFull() bool {
	return u.EndpointAccess["full"].Full
}

// HasAccess checks one resource/method pair against the access map.
func (u User) HasAccess(resource, method string, hasID bool) bool {
	if u.IsFull() {
		return true
	}
	acc, ok := u.EndpointAccess[resource]
	if !ok {
		return false
	}
	switch method {
	case "GET":
		if hasID {
			return acc.Single
		}
		return acc.All
	case "POST":
		return acc.Create
	case "PUT":
		return acc.Update
	case "DELETE":
		return acc.Delete
	default:
		return false
	}
}

// FullAccess is the access map of an owner key.
func FullAccess() map[string]Access {
	return map[string]Access{"full": {Full: true}}
}
