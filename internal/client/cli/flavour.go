package cli

import "github.com/parceltrack/console/internal/common"

// Flavour describes one console: the routes the session manager navigates
// to and the commands the REPL accepts.
type Flavour struct {
	Name string
	// LoginRoute is where an unrecoverable session sends the user.
	LoginRoute string
	// LandingRoute is where logout leaves the user.
	LandingRoute string
	// HomeRoute is the first screen after a successful login.
	HomeRoute string
	// RequireLogin makes the console open on the login route when no
	// session is stored.
	RequireLogin bool

	commands []command
}

// Admin is the staff console.
func Admin() Flavour {
	return Flavour{
		Name:         "admin",
		LoginRoute:   common.LoginRoute,
		LandingRoute: common.LoginRoute,
		HomeRoute:    common.DefaultRoute,
		RequireLogin: true,
		commands:     append(commonCommands(), adminCommands()...),
	}
}

// Portal is the customer console.
func Portal() Flavour {
	return Flavour{
		Name:         "portal",
		LoginRoute:   common.LoginRoute,
		LandingRoute: common.HomeRoute,
		HomeRoute:    common.HomeRoute,
		commands:     append(commonCommands(), portalCommands()...),
	}
}

// ByName returns the flavour called name.
func ByName(name string) (Flavour, bool) {
	switch name {
	case "admin":
		return Admin(), true
	case "portal":
		return Portal(), true
	}
	return Flavour{}, false
}

func (f Flavour) lookup(name string) (command, bool) {
	for _, c := range f.commands {
		if c.name == name {
			return c, true
		}
		for _, alias := range c.aliases {
			if alias == name {
				return c, true
			}
		}
	}
	return command{}, false
}
