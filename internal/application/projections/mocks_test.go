package projections

import (
	"context"
	"errors"
	"strings"
	"time"

	auditstore "softres/internal/adapters/storage/audit"
	playerstore "softres/internal/adapters/storage/player"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/class"
	"softres/internal/domain/loot"
	"softres/internal/domain/player"
	"softres/internal/domain/raid"
	"softres/internal/domain/srchoice"
	"softres/internal/domain/week"
)

// A Wednesday; the containing week starts Tuesday Jun 3, 2025.
var fixedTime = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var errNotFound = errors.New("not found")

func mustCurrentLabel() string { return week.CurrentLabel(fixedTime) }

func ptr[T any](v T) *T { return &v }

type mockWeekStore struct {
	weeks map[int64]week.Week
}

func newMockWeekStore() *mockWeekStore {
	return &mockWeekStore{weeks: map[int64]week.Week{}}
}

func (m *mockWeekStore) add(w week.Week) {
	m.weeks[w.ID] = w
}

func (m *mockWeekStore) addCurrent(id, raidID int64) week.Week {
	w := week.Week{
		ID:        id,
		RaidID:    raidID,
		Label:     mustCurrentLabel(),
		StartDate: week.CurrentStart(fixedTime),
	}
	m.add(w)
	return w
}

func (m *mockWeekStore) GetByID(_ context.Context, id int64) (week.Week, error) {
	w, ok := m.weeks[id]
	if !ok {
		return week.Week{}, errNotFound
	}
	return w, nil
}

func (m *mockWeekStore) GetByLabel(_ context.Context, label string) (week.Week, bool, error) {
	for _, w := range m.weeks {
		if w.Label == label {
			return w, true, nil
		}
	}
	return week.Week{}, false, nil
}

func (m *mockWeekStore) List(_ context.Context) ([]week.Week, error) {
	out := make([]week.Week, 0, len(m.weeks))
	for _, w := range m.weeks {
		out = append(out, w)
	}
	// newest first, as the SQL store orders
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].StartDate.After(out[i].StartDate) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type mockPlayerStore struct {
	players map[int64]player.Player
}

func newMockPlayerStore() *mockPlayerStore {
	return &mockPlayerStore{players: map[int64]player.Player{}}
}

func (m *mockPlayerStore) add(p player.Player) {
	m.players[p.ID] = p
}

func (m *mockPlayerStore) List(_ context.Context, filter playerstore.ListFilter) ([]player.Player, error) {
	var out []player.Player
	for _, p := range m.players {
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		if filter.ClassID != nil && p.ClassID != *filter.ClassID {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, p)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Name < out[i].Name {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type mockClassStore struct {
	classes map[int64]class.Class
}

func newMockClassStore() *mockClassStore {
	return &mockClassStore{classes: map[int64]class.Class{}}
}

func (m *mockClassStore) add(c class.Class) {
	m.classes[c.ID] = c
}

func (m *mockClassStore) GetByID(_ context.Context, id int64) (class.Class, error) {
	c, ok := m.classes[id]
	if !ok {
		return class.Class{}, errNotFound
	}
	return c, nil
}

func (m *mockClassStore) List(_ context.Context) ([]class.Class, error) {
	out := make([]class.Class, 0, len(m.classes))
	for _, c := range m.classes {
		out = append(out, c)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Name < out[i].Name {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type mockChoiceStore struct {
	choices map[int64][]srchoice.Choice // by week
}

func newMockChoiceStore() *mockChoiceStore {
	return &mockChoiceStore{choices: map[int64][]srchoice.Choice{}}
}

func (m *mockChoiceStore) add(c srchoice.Choice) {
	m.choices[c.WeekID] = append(m.choices[c.WeekID], c)
}

func (m *mockChoiceStore) ListByWeek(_ context.Context, weekID int64) ([]srchoice.Choice, error) {
	return m.choices[weekID], nil
}

type mockLootStore struct {
	items map[int64]loot.Item
	drops map[int64][]int64 // bossID -> item ids
}

func newMockLootStore() *mockLootStore {
	return &mockLootStore{items: map[int64]loot.Item{}, drops: map[int64][]int64{}}
}

func (m *mockLootStore) add(it loot.Item) {
	m.items[it.ID] = it
}

func (m *mockLootStore) addDrop(bossID, itemID int64) {
	m.drops[bossID] = append(m.drops[bossID], itemID)
}

func (m *mockLootStore) GetItemByID(_ context.Context, id int64) (loot.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return loot.Item{}, errNotFound
	}
	return it, nil
}

func (m *mockLootStore) ListItems(_ context.Context) ([]loot.Item, error) {
	out := make([]loot.Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *mockLootStore) ListDropsForBoss(_ context.Context, bossID int64) ([]loot.Item, error) {
	var out []loot.Item
	for _, id := range m.drops[bossID] {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *mockLootStore) ListBossIDsForItem(_ context.Context, lootItemID int64) ([]int64, error) {
	var out []int64
	for bossID, items := range m.drops {
		for _, id := range items {
			if id == lootItemID {
				out = append(out, bossID)
			}
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j] < out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type mockRaidStore struct {
	raids  map[int64]raid.Raid
	bosses map[int64]raid.Boss
	order  []int64 // boss ids in seed order
}

func newMockRaidStore() *mockRaidStore {
	return &mockRaidStore{raids: map[int64]raid.Raid{}, bosses: map[int64]raid.Boss{}}
}

func (m *mockRaidStore) addRaid(r raid.Raid) {
	m.raids[r.ID] = r
}

func (m *mockRaidStore) addBoss(b raid.Boss) {
	m.bosses[b.ID] = b
	m.order = append(m.order, b.ID)
}

func (m *mockRaidStore) GetRaidByID(_ context.Context, id int64) (raid.Raid, error) {
	r, ok := m.raids[id]
	if !ok {
		return raid.Raid{}, errNotFound
	}
	return r, nil
}

func (m *mockRaidStore) ListRaids(_ context.Context) ([]raid.Raid, error) {
	out := make([]raid.Raid, 0, len(m.raids))
	for id := int64(1); len(out) < len(m.raids); id++ {
		if r, ok := m.raids[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRaidStore) GetBossByID(_ context.Context, id int64) (raid.Boss, error) {
	b, ok := m.bosses[id]
	if !ok {
		return raid.Boss{}, errNotFound
	}
	return b, nil
}

func (m *mockRaidStore) ListBossesByRaid(_ context.Context, raidID int64) ([]raid.Boss, error) {
	var out []raid.Boss
	for _, id := range m.order {
		if b := m.bosses[id]; b.RaidID == raidID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockKillStore struct {
	kills map[int64][]raid.Kill // by week
}

func newMockKillStore() *mockKillStore {
	return &mockKillStore{kills: map[int64][]raid.Kill{}}
}

func (m *mockKillStore) add(k raid.Kill) {
	m.kills[k.WeekID] = append(m.kills[k.WeekID], k)
}

func (m *mockKillStore) ListByWeek(_ context.Context, weekID int64) ([]raid.Kill, error) {
	return m.kills[weekID], nil
}

type mockAuditStore struct {
	entries    []auditdomain.Entry
	lastFilter auditstore.Filter
	lastCursor int64
	lastLimit  int
}

func (m *mockAuditStore) List(_ context.Context, filter auditstore.Filter, cursor int64, limit int) ([]auditdomain.Entry, int64, error) {
	m.lastFilter = filter
	m.lastCursor = cursor
	m.lastLimit = limit
	return m.entries, 0, nil
}
