package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/client/models"
	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
)

// MemberService is the membership registry under users/. Every write that
// creates or removes a member also updates paid/ in the same Update, so the
// two maps always list the same names.
type MemberService struct {
	store   docstore.Store
	layout  Layout
	session *Session
	logger  logging.Logger
	now     func() time.Time
}

func NewMemberService(store docstore.Store, l Layout, s *Session, logger logging.Logger) *MemberService {
	return &MemberService{
		store:   store,
		layout:  l,
		session: s,
		logger:  logger.With("module", "members"),
		now:     time.Now,
	}
}

func isPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Register creates a pending member. Name, password and phone are trimmed
// the same way Login trims them. An existing record is never overwritten.
func (m *MemberService) Register(ctx context.Context, name, password, phone, image string) error {
	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)
	phone = strings.TrimSpace(phone)

	if err := checkKey("name", name); err != nil {
		return err
	}
	if password == "" {
		return validationf("password is required")
	}
	if !isPhone(phone) {
		return validationf("enter valid 10-digit mobile number")
	}
	if image == "" {
		return validationf("upload profile image")
	}

	snap, err := m.store.Get(ctx, m.layout.User(name))
	if err != nil {
		return err
	}
	if snap.Exists {
		return fmt.Errorf("%w: member %q", common.ErrorAlreadyExists, name)
	}

	rec := models.Member{
		Name:         name,
		Password:     password,
		Phone:        phone,
		Img:          image,
		Paid:         false,
		RegisteredAt: m.now().UnixMilli(),
	}
	err = m.store.Update(ctx, map[string]any{
		m.layout.User(name):   rec,
		m.layout.PaidOf(name): false,
	})
	if err != nil {
		return err
	}

	m.logger.Info(ctx, "member registered", "name", name)
	return nil
}

// decodeMembers turns the users map into records ordered by registration
// time (missing counts as 0), then by name. The map key is the name. Records
// that do not decode are left out and their names returned in skipped.
func decodeMembers(snap docstore.Snapshot) (list []models.Member, skipped []string) {
	users, _ := snap.Value.(map[string]any)

	list = make([]models.Member, 0, len(users))
	for name, v := range users {
		var rec models.Member
		if _, ok := v.(map[string]any); !ok {
			skipped = append(skipped, name)
			continue
		}
		if err := (docstore.Snapshot{Value: v, Exists: true}).Decode(&rec); err != nil {
			skipped = append(skipped, name)
			continue
		}
		rec.Name = name
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].RegisteredAt != list[j].RegisteredAt {
			return list[i].RegisteredAt < list[j].RegisteredAt
		}
		return list[i].Name < list[j].Name
	})
	sort.Strings(skipped)
	return list, skipped
}

func (m *MemberService) decode(ctx context.Context, snap docstore.Snapshot) []models.Member {
	list, skipped := decodeMembers(snap)
	if len(skipped) > 0 {
		m.logger.Warn(ctx, "skipping malformed member records", "names", skipped)
	}
	return list
}

func (m *MemberService) List(ctx context.Context) ([]models.Member, error) {
	snap, err := m.store.Get(ctx, m.layout.Users())
	if err != nil {
		return nil, err
	}
	return m.decode(ctx, snap), nil
}

func (m *MemberService) remove(ctx context.Context, name string) error {
	return m.store.Update(ctx, map[string]any{
		m.layout.User(name):   nil,
		m.layout.PaidOf(name): nil,
	})
}

// Delete removes a member. Admin only; deleting an unknown name succeeds.
func (m *MemberService) Delete(ctx context.Context, name string) error {
	if !m.session.Actor().IsAdmin() {
		return unauthorized("admin only")
	}
	if err := checkKey("name", name); err != nil {
		return err
	}
	if err := m.remove(ctx, name); err != nil {
		return err
	}

	m.logger.Info(ctx, "member deleted", "name", name)
	return nil
}

// SelfDelete removes the caller's own record and signs the session out. It
// is refused for the admin and for any other member.
func (m *MemberService) SelfDelete(ctx context.Context, callerName string) error {
	if !m.session.Actor().IsMember(callerName) {
		return unauthorized("only normal users can delete their account from here")
	}
	if err := m.remove(ctx, callerName); err != nil {
		return err
	}

	m.logger.Info(ctx, "member deleted own account", "name", callerName)
	m.session.Clear()
	return nil
}

// Avatar returns the member's profile image or "" when there is none.
func (m *MemberService) Avatar(ctx context.Context, name string) (string, error) {
	if err := checkKey("name", name); err != nil {
		return "", err
	}
	snap, err := m.store.Get(ctx, m.layout.UserImg(name))
	if err != nil {
		return "", err
	}
	img, _ := snap.Value.(string)
	return img, nil
}

// Watch calls fn with the ordered member list now and on every change. The
// watch belongs to the session and ends on logout.
func (m *MemberService) Watch(ctx context.Context, fn func([]models.Member)) error {
	sub, err := m.store.Watch(ctx, m.layout.Users(), func(snap docstore.Snapshot) {
		fn(m.decode(ctx, snap))
	})
	if err != nil {
		return err
	}
	m.session.Track(sub)
	return nil
}
