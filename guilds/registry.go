// Package guilds manages role-backed guilds on chat servers. Each guild has a
// leader who can add, remove and promote members; moderators create and
// delete guilds.
package guilds

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	gblog "github.com/poundbot/guildbot/log"
	"github.com/poundbot/guildbot/storage"
	"github.com/poundbot/guildbot/types"
	"github.com/sirupsen/logrus"
)

var log = gblog.Log.WithField("sys", "GUILDS")

// MaxNameLength is the longest guild name accepted, in characters. It matches
// the Discord role name limit.
const MaxNameLength = 100

// Membership is the result of a leader command.
type Membership struct {
	Guild  types.Guild
	Member Member
}

// Listing is a guild and the display names of its members.
type Listing struct {
	Name    string
	Members []string
}

// A Registry owns the server -> guild mapping. Every mutation is written to
// the store before it is applied in memory, and each operation holds the
// registry lock for its duration, platform calls included.
type Registry struct {
	mux      sync.Mutex
	platform Platform
	store    storage.GuildsStore
	d        types.Registry
}

// NewRegistry loads all guilds from gs.
func NewRegistry(p Platform, gs storage.GuildsStore) (*Registry, error) {
	all, err := gs.All()
	if err != nil {
		return nil, &Error{Kind: ErrStorage, Err: err}
	}
	return &Registry{platform: p, store: gs, d: types.NewRegistry(all)}, nil
}

// CreateGuild creates a guild led by leaderID, backed by a new role without
// permissions. If granting the role or saving the guild fails, the role is
// deleted again.
func (r *Registry) CreateGuild(serverID, leaderID, name string) (types.Guild, error) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return types.Guild{}, &Error{Kind: ErrInvalidName, Guild: name}
	}

	r.mux.Lock()
	defer r.mux.Unlock()

	cgLog := log.WithFields(logrus.Fields{"cmd": "CreateGuild", "gID": serverID, "guild": name, "uID": leaderID})

	sg := r.d[serverID]
	if _, ok := sg[name]; ok {
		return types.Guild{}, &Error{Kind: ErrAlreadyExists, Guild: name}
	}
	if led, ok := sg.LedBy(leaderID); ok {
		return types.Guild{}, &Error{Kind: ErrAlreadyLeader, Guild: led.Name}
	}

	roleID, err := r.platform.CreateRole(serverID, name)
	if err != nil {
		cgLog.WithError(err).Warn("Could not create role")
		return types.Guild{}, platformError(name, err)
	}
	cgLog = cgLog.WithField("rID", roleID)

	if err := r.platform.GrantRole(serverID, leaderID, roleID); err != nil {
		cgLog.WithError(err).Warn("Could not grant role to leader")
		r.discardRole(cgLog, serverID, roleID)
		return types.Guild{}, platformError(name, err)
	}

	g := types.Guild{
		ServerID:  serverID,
		Name:      name,
		LeaderID:  leaderID,
		RoleID:    roleID,
		Timestamp: types.NewTimestamp(),
	}
	if err := r.store.Upsert(g); err != nil {
		cgLog.WithError(err).Error("Storage error saving guild")
		r.discardRole(cgLog, serverID, roleID)
		return types.Guild{}, &Error{Kind: ErrStorage, Guild: name, Err: err}
	}

	r.d.Set(g)
	cgLog.Info("Guild created")
	return g, nil
}

func (r *Registry) discardRole(l *logrus.Entry, serverID, roleID string) {
	if err := r.platform.DeleteRole(serverID, roleID); err != nil {
		l.WithError(err).Error("Could not delete role, it is orphaned")
	}
}

// DeleteGuild revokes the guild role from every member holding it, deletes
// the role and forgets the guild. A role that is already gone is not an
// error.
func (r *Registry) DeleteGuild(serverID, name string) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	g, ok := r.d[serverID][name]
	if !ok {
		return &Error{Kind: ErrNotFound, Guild: name}
	}
	dgLog := log.WithFields(logrus.Fields{"cmd": "DeleteGuild", "gID": serverID, "guild": name, "rID": g.RoleID})

	members, err := r.platform.Members(serverID)
	if err != nil {
		return platformError(name, err)
	}

	for _, m := range members {
		if !m.HasRole(g.RoleID) {
			continue
		}
		if err := r.platform.RevokeRole(serverID, m.ID, g.RoleID); err != nil {
			dgLog.WithField("uID", m.ID).WithError(err).Warn("Could not revoke role")
			return platformError(name, err)
		}
	}

	if err := r.platform.DeleteRole(serverID, g.RoleID); err != nil && !errors.Is(err, ErrNotFound) {
		dgLog.WithError(err).Warn("Could not delete role")
		return platformError(name, err)
	}

	if err := r.store.Remove(serverID, name); err != nil {
		dgLog.WithError(err).Error("Storage error removing guild")
		return &Error{Kind: ErrStorage, Guild: name, Err: err}
	}

	r.d.Delete(serverID, name)
	dgLog.Info("Guild deleted")
	return nil
}

// ledGuild finds the guild led by leaderID. The caller holds the lock.
func (r *Registry) ledGuild(serverID, leaderID string) (types.Guild, error) {
	g, ok := r.d[serverID].LedBy(leaderID)
	if !ok {
		return types.Guild{}, &Error{Kind: ErrNotLeader}
	}
	return g, nil
}

// member resolves a leader's guild and the target member.
func (r *Registry) member(serverID, memberID, leaderID string) (Membership, error) {
	g, err := r.ledGuild(serverID, leaderID)
	if err != nil {
		return Membership{}, err
	}

	m, err := r.platform.Member(serverID, memberID)
	if err != nil {
		return Membership{}, platformError(g.Name, err)
	}
	return Membership{Guild: g, Member: m}, nil
}

// AddMember grants the role of the guild led by leaderID to memberID.
func (r *Registry) AddMember(serverID, memberID, leaderID string) (Membership, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	ms, err := r.member(serverID, memberID, leaderID)
	if err != nil {
		return ms, err
	}
	if ms.Member.HasRole(ms.Guild.RoleID) {
		return ms, &Error{Kind: ErrAlreadyMember, Guild: ms.Guild.Name}
	}

	if err := r.platform.GrantRole(serverID, memberID, ms.Guild.RoleID); err != nil {
		return ms, platformError(ms.Guild.Name, err)
	}
	ms.Member.Roles = append(ms.Member.Roles, ms.Guild.RoleID)
	return ms, nil
}

// RemoveMember revokes the role of the guild led by leaderID from memberID.
func (r *Registry) RemoveMember(serverID, memberID, leaderID string) (Membership, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	ms, err := r.member(serverID, memberID, leaderID)
	if err != nil {
		return ms, err
	}
	if !ms.Member.HasRole(ms.Guild.RoleID) {
		return ms, &Error{Kind: ErrNotAMember, Guild: ms.Guild.Name}
	}

	if err := r.platform.RevokeRole(serverID, memberID, ms.Guild.RoleID); err != nil {
		return ms, platformError(ms.Guild.Name, err)
	}

	roles := ms.Member.Roles[:0:0]
	for _, role := range ms.Member.Roles {
		if role != ms.Guild.RoleID {
			roles = append(roles, role)
		}
	}
	ms.Member.Roles = roles
	return ms, nil
}

// TransferLeadership makes memberID the leader of the guild led by
// leaderID. The new leader must already hold the guild role and must not
// lead another guild.
func (r *Registry) TransferLeadership(serverID, memberID, leaderID string) (Membership, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	ms, err := r.member(serverID, memberID, leaderID)
	if err != nil {
		return ms, err
	}
	if !ms.Member.HasRole(ms.Guild.RoleID) {
		return ms, &Error{Kind: ErrNotAMember, Guild: ms.Guild.Name}
	}
	if memberID == leaderID {
		return ms, nil
	}
	if led, ok := r.d[serverID].LedBy(memberID); ok {
		return ms, &Error{Kind: ErrAlreadyLeader, Guild: led.Name}
	}

	g := ms.Guild
	g.LeaderID = memberID
	g.Touch()
	if err := r.store.Upsert(g); err != nil {
		log.WithFields(logrus.Fields{"cmd": "TransferLeadership", "gID": serverID, "guild": g.Name}).
			WithError(err).Error("Storage error saving guild")
		return ms, &Error{Kind: ErrStorage, Guild: g.Name, Err: err}
	}

	r.d.Set(g)
	ms.Guild = g
	return ms, nil
}

// ListGuilds lists the server's guilds by ascending name, each with its
// members in platform order. A server without guilds yields nil.
func (r *Registry) ListGuilds(serverID string) ([]Listing, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	sg := r.d[serverID]
	if len(sg) == 0 {
		return nil, nil
	}

	members, err := r.platform.Members(serverID)
	if err != nil {
		return nil, platformError("", err)
	}

	names := sg.Names()
	listings := make([]Listing, len(names))
	for i, name := range names {
		listings[i] = Listing{Name: name, Members: holders(members, sg[name].RoleID)}
	}
	return listings, nil
}

// ListMembers lists the display names of a guild's members.
func (r *Registry) ListMembers(serverID, name string) ([]string, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	g, ok := r.d[serverID][name]
	if !ok {
		return nil, &Error{Kind: ErrNotFound, Guild: name}
	}

	members, err := r.platform.Members(serverID)
	if err != nil {
		return nil, platformError(name, err)
	}
	return holders(members, g.RoleID), nil
}

func holders(members []Member, roleID string) []string {
	var names []string
	for _, m := range members {
		if m.HasRole(roleID) {
			names = append(names, m.DisplayName)
		}
	}
	return names
}

// Guilds returns the server's guilds ordered by name.
func (r *Registry) Guilds(serverID string) []types.Guild {
	r.mux.Lock()
	defer r.mux.Unlock()

	sg := r.d[serverID]
	out := make([]types.Guild, 0, len(sg))
	for _, name := range sg.Names() {
		out = append(out, sg[name])
	}
	return out
}

// ForgetRole drops the guild backed by roleID, for roles deleted outside the
// bot. It reports whether a guild was dropped.
func (r *Registry) ForgetRole(serverID, roleID string) (types.Guild, bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	g, ok := r.d[serverID].ByRole(roleID)
	if !ok {
		return types.Guild{}, false, nil
	}
	if err := r.store.Remove(serverID, g.Name); err != nil {
		return g, false, &Error{Kind: ErrStorage, Guild: g.Name, Err: err}
	}
	r.d.Delete(serverID, g.Name)
	return g, true, nil
}

// RemoveServer forgets every guild of a server the bot has left.
func (r *Registry) RemoveServer(serverID string) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	if _, ok := r.d[serverID]; !ok {
		return nil
	}
	if err := r.store.RemoveServer(serverID); err != nil {
		return &Error{Kind: ErrStorage, Err: err}
	}
	delete(r.d, serverID)
	return nil
}

// Import adds guilds that are not yet known, e.g. from a legacy settings
// file. Records with an existing or invalid name, or whose leader already
// leads a guild on that server, are skipped. It returns how many were added.
func (r *Registry) Import(gs []types.Guild) (int, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	sorted := make([]types.Guild, len(gs))
	copy(sorted, gs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ServerID != sorted[j].ServerID {
			return sorted[i].ServerID < sorted[j].ServerID
		}
		return sorted[i].Name < sorted[j].Name
	})

	added := 0
	for _, g := range sorted {
		g.Name = strings.TrimSpace(g.Name)
		iLog := log.WithFields(logrus.Fields{"cmd": "Import", "gID": g.ServerID, "guild": g.Name, "uID": g.LeaderID})
		if !validName(g.Name) {
			iLog.Warn("Skipping guild with invalid name")
			continue
		}
		if _, ok := r.d[g.ServerID][g.Name]; ok {
			iLog.Info("Skipping existing guild")
			continue
		}
		if led, ok := r.d[g.ServerID].LedBy(g.LeaderID); ok {
			iLog.WithField("led", led.Name).Warn("Skipping guild, leader already leads another")
			continue
		}
		if err := r.store.Upsert(g); err != nil {
			return added, &Error{Kind: ErrStorage, Guild: g.Name, Err: err}
		}
		r.d.Set(g)
		added++
	}
	return added, nil
}

// validName reports whether a trimmed name fits a platform role name.
func validName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= MaxNameLength
}
