package guilds

import (
	"fmt"
	"sort"

	"github.com/poundbot/guildbot/types"
	"github.com/stretchr/testify/mock"
)

// fakePlatform keeps members and roles in memory and records every call.
type fakePlatform struct {
	members map[string][]*Member // server -> members in join order
	roles   map[string]string    // role ID -> name
	nextID  int
	calls   []string
	failOn  map[string]error // call name -> error to return
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		members: map[string][]*Member{},
		roles:   map[string]string{},
		failOn:  map[string]error{},
	}
}

func (f *fakePlatform) join(serverID, memberID, name string) {
	f.members[serverID] = append(f.members[serverID], &Member{ID: memberID, DisplayName: name})
}

func (f *fakePlatform) find(serverID, memberID string) *Member {
	for _, m := range f.members[serverID] {
		if m.ID == memberID {
			return m
		}
	}
	return nil
}

func (f *fakePlatform) call(name string) error {
	f.calls = append(f.calls, name)
	return f.failOn[name]
}

func (f *fakePlatform) CreateRole(serverID, name string) (string, error) {
	if err := f.call("CreateRole"); err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("role-%d", f.nextID)
	f.roles[id] = name
	return id, nil
}

func (f *fakePlatform) DeleteRole(serverID, roleID string) error {
	if err := f.call("DeleteRole"); err != nil {
		return err
	}
	if _, ok := f.roles[roleID]; !ok {
		return fmt.Errorf("%w: role %s", ErrNotFound, roleID)
	}
	delete(f.roles, roleID)
	for _, m := range f.members[serverID] {
		m.Roles = without(m.Roles, roleID)
	}
	return nil
}

func (f *fakePlatform) GrantRole(serverID, memberID, roleID string) error {
	if err := f.call("GrantRole"); err != nil {
		return err
	}
	m := f.find(serverID, memberID)
	if m == nil {
		return fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}
	if !m.HasRole(roleID) {
		m.Roles = append(m.Roles, roleID)
	}
	return nil
}

func (f *fakePlatform) RevokeRole(serverID, memberID, roleID string) error {
	if err := f.call("RevokeRole"); err != nil {
		return err
	}
	m := f.find(serverID, memberID)
	if m == nil {
		return fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}
	m.Roles = without(m.Roles, roleID)
	return nil
}

func (f *fakePlatform) Members(serverID string) ([]Member, error) {
	if err := f.call("Members"); err != nil {
		return nil, err
	}
	out := make([]Member, len(f.members[serverID]))
	for i, m := range f.members[serverID] {
		out[i] = *m
		out[i].Roles = append([]string(nil), m.Roles...)
	}
	return out, nil
}

func (f *fakePlatform) Member(serverID, memberID string) (Member, error) {
	if err := f.call("Member"); err != nil {
		return Member{}, err
	}
	m := f.find(serverID, memberID)
	if m == nil {
		return Member{}, fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}
	out := *m
	out.Roles = append([]string(nil), m.Roles...)
	return out, nil
}

func without(roles []string, roleID string) []string {
	out := roles[:0:0]
	for _, r := range roles {
		if r != roleID {
			out = append(out, r)
		}
	}
	return out
}

// memStore is an in-memory storage.GuildsStore.
type memStore struct {
	r types.Registry
}

func newMemStore(gs ...types.Guild) *memStore {
	return &memStore{r: types.NewRegistry(gs)}
}

func (s *memStore) All() ([]types.Guild, error) {
	var out []types.Guild
	for _, sg := range s.r {
		for _, name := range sg.Names() {
			out = append(out, sg[name])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) Upsert(g types.Guild) error {
	s.r.Set(g)
	return nil
}

func (s *memStore) Remove(serverID, name string) error {
	s.r.Delete(serverID, name)
	return nil
}

func (s *memStore) RemoveServer(serverID string) error {
	delete(s.r, serverID)
	return nil
}

// storeMock is a testify mock of storage.GuildsStore.
type storeMock struct {
	mock.Mock
}

func (m *storeMock) All() ([]types.Guild, error) {
	args := m.Called()
	gs, _ := args.Get(0).([]types.Guild)
	return gs, args.Error(1)
}

func (m *storeMock) Upsert(g types.Guild) error {
	return m.Called(g).Error(0)
}

func (m *storeMock) Remove(serverID, name string) error {
	return m.Called(serverID, name).Error(0)
}

func (m *storeMock) RemoveServer(serverID string) error {
	return m.Called(serverID).Error(0)
}
