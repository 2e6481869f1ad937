package authn

type User interface {
	UserSubject() string
	UserProvider() string
}

// Admin is a user declared in the configuration
type Admin struct {
	username string
}

// UserSubject implements User.
func (a *Admin) UserSubject() string {
	return a.username
}

// UserProvider implements User.
func (a *Admin) UserProvider() string {
	return "config"
}

func NewAdmin(username string) *Admin {
	return &Admin{username: username}
}

var _ User = &Admin{}
