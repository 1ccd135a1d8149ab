package models

// ActorKind tells who is using a session.
type ActorKind int

const (
	ActorNone ActorKind = iota
	ActorMember
	ActorAdmin
)

func (k ActorKind) String() string {
	switch k {
	case ActorMember:
		return "member"
	case ActorAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Actor is the identity behind a session. Name is set for members only.
type Actor struct {
	Kind ActorKind
	Name string
}

func (a Actor) IsAdmin() bool { return a.Kind == ActorAdmin }

// IsMember reports whether a is the member called name.
func (a Actor) IsMember(name string) bool {
	return a.Kind == ActorMember && a.Name == name
}

func (a Actor) Authenticated() bool { return a.Kind != ActorNone }
