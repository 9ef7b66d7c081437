package manifest

import "slices"

// PermissionState distinguishes the three shapes a permission category can take.
type PermissionState int

const (
	// NotRequested means the manifest does not mention the category.
	NotRequested PermissionState = iota
	// Wildcard means the category is requested with an empty list: any resource.
	Wildcard
	// AllowList means the category is limited to the listed patterns.
	AllowList
)

func (s PermissionState) String() string {
	switch s {
	case NotRequested:
		return "not-requested"
	case Wildcard:
		return "wildcard"
	case AllowList:
		return "allow-list"
	default:
		return "unknown"
	}
}

// Permission is one category of capability requested by an extension.
// The zero value is NotRequested.
type Permission struct {
	requested bool
	patterns  []string
}

// Any returns a Wildcard permission.
func Any() Permission {
	return Permission{requested: true}
}

// Only returns an AllowList permission over patterns. With no patterns it is
// the same as Any.
func Only(patterns ...string) Permission {
	return Permission{requested: true, patterns: slices.Clone(patterns)}
}

// Get returns (nil, false) when the category is not requested, an empty
// non-nil slice for a wildcard, and a copy of the patterns otherwise.
func (p Permission) Get() ([]string, bool) {
	if !p.requested {
		return nil, false
	}
	if len(p.patterns) == 0 {
		return []string{}, true
	}
	return slices.Clone(p.patterns), true
}

// State reports which of the three shapes p has.
func (p Permission) State() PermissionState {
	switch {
	case !p.requested:
		return NotRequested
	case len(p.patterns) == 0:
		return Wildcard
	default:
		return AllowList
	}
}

// Equal reports whether p and other request the same thing.
func (p Permission) Equal(other Permission) bool {
	return p.requested == other.requested && slices.Equal(p.patterns, other.patterns)
}

func (p Permission) raw() *[]string {
	list, ok := p.Get()
	if !ok {
		return nil
	}
	return &list
}

func permissionFromRaw(list *[]string) Permission {
	if list == nil {
		return Permission{}
	}
	return Only(*list...)
}

// Permissions is the full capability request of an extension.
type Permissions struct {
	Read  Permission
	Write Permission
	Run   Permission
	Net   Permission
}

// Category is a permission category paired with how it is described to users.
type Category struct {
	Key        string
	Label      string
	Resource   string
	Permission Permission
}

// Categories returns the four categories in display order: read, write, run, net.
func (p Permissions) Categories() []Category {
	return []Category{
		{Key: "read", Label: "Read", Resource: "path", Permission: p.Read},
		{Key: "write", Label: "Write", Resource: "path", Permission: p.Write},
		{Key: "run", Label: "Run", Resource: "command", Permission: p.Run},
		{Key: "net", Label: "Access", Resource: "domain", Permission: p.Net},
	}
}

// IsAllowNone reports whether no category is requested at all.
func (p Permissions) IsAllowNone() bool {
	for _, c := range p.Categories() {
		if c.Permission.State() != NotRequested {
			return false
		}
	}
	return true
}

// Equal reports whether both permission sets request exactly the same things.
func (p Permissions) Equal(other Permissions) bool {
	return p.Read.Equal(other.Read) &&
		p.Write.Equal(other.Write) &&
		p.Run.Equal(other.Run) &&
		p.Net.Equal(other.Net)
}

func (p Permissions) raw() *rawPermissions {
	if p.IsAllowNone() {
		return nil
	}
	return &rawPermissions{
		Read:  p.Read.raw(),
		Write: p.Write.raw(),
		Run:   p.Run.raw(),
		Net:   p.Net.raw(),
	}
}

func permissionsFromRaw(r *rawPermissions) Permissions {
	if r == nil {
		return Permissions{}
	}
	return Permissions{
		Read:  permissionFromRaw(r.Read),
		Write: permissionFromRaw(r.Write),
		Run:   permissionFromRaw(r.Run),
		Net:   permissionFromRaw(r.Net),
	}
}
