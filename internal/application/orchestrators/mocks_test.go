package orchestrators

import (
	"context"
	"errors"
	"sort"
	"time"

	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/class"
	"softres/internal/domain/loot"
	"softres/internal/domain/player"
	"softres/internal/domain/raid"
	"softres/internal/domain/srchoice"
	"softres/internal/domain/week"
)

// fixedTime is a Wednesday; its week is "Week of Jun 3, 2025".
var fixedTime = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// mustCurrentLabel is the label of the week covering fixedTime.
func mustCurrentLabel() string { return week.CurrentLabel(fixedTime) }

// --- week store mock ---

type mockWeekStore struct {
	weeks  map[string]week.Week // by label
	audits []auditdomain.Entry
	nextID int64
}

func newMockWeekStore() *mockWeekStore {
	return &mockWeekStore{weeks: make(map[string]week.Week)}
}

// addCurrent seeds the week covering fixedTime and returns it.
func (m *mockWeekStore) addCurrent(raidID int64) week.Week {
	start := week.CurrentStart(fixedTime)
	w := week.Week{ID: m.genID(), RaidID: raidID, Label: week.LabelFor(start), StartDate: start}
	m.weeks[w.Label] = w
	return w
}

func (m *mockWeekStore) genID() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockWeekStore) GetByLabel(_ context.Context, label string) (week.Week, bool, error) {
	w, ok := m.weeks[label]
	return w, ok, nil
}

func (m *mockWeekStore) List(_ context.Context) ([]week.Week, error) {
	var out []week.Week
	for _, w := range m.weeks {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (m *mockWeekStore) Create(_ context.Context, value week.Week) (int64, error) {
	value.ID = m.genID()
	m.weeks[value.Label] = value
	return value.ID, nil
}

func (m *mockWeekStore) EnsureNext(_ context.Context, next week.Week, entryFor func(nextID int64, created bool) auditdomain.Entry) (int64, bool, error) {
	existing, ok := m.weeks[next.Label]
	id := existing.ID
	created := false
	if !ok {
		id = m.genID()
		next.ID = id
		m.weeks[next.Label] = next
		created = true
	}
	entry := entryFor(id, created)
	if err := entry.Validate(); err != nil {
		if created {
			delete(m.weeks, next.Label)
		}
		return 0, false, err
	}
	m.audits = append(m.audits, entry)
	return id, created, nil
}

// --- player store mock ---

type mockPlayerStore struct {
	players map[int64]player.Player
	audits  []auditdomain.Entry
	nextID  int64
}

func newMockPlayerStore() *mockPlayerStore {
	return &mockPlayerStore{players: make(map[int64]player.Player)}
}

func (m *mockPlayerStore) add(p player.Player) player.Player {
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	}
	m.players[p.ID] = p
	return p
}

func (m *mockPlayerStore) GetByID(_ context.Context, id int64) (player.Player, error) {
	p, ok := m.players[id]
	if !ok {
		return player.Player{}, errors.New("not found")
	}
	return p, nil
}

func (m *mockPlayerStore) GetByName(_ context.Context, name string) (player.Player, bool, error) {
	for _, p := range m.players {
		if equalFold(p.Name, name) {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (m *mockPlayerStore) Create(_ context.Context, value player.Player, entryFor func(id int64) auditdomain.Entry) (int64, error) {
	m.nextID++
	value.ID = m.nextID
	entry := entryFor(value.ID)
	if err := entry.Validate(); err != nil {
		return 0, err
	}
	m.players[value.ID] = value
	m.audits = append(m.audits, entry)
	return value.ID, nil
}

func (m *mockPlayerStore) SetActive(_ context.Context, id int64, active bool, entry auditdomain.Entry) error {
	p, ok := m.players[id]
	if !ok {
		return errors.New("not found")
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	p.Active = active
	m.players[id] = p
	m.audits = append(m.audits, entry)
	return nil
}

func (m *mockPlayerStore) SetActiveAll(ctx context.Context, ids []int64, active bool, entries []auditdomain.Entry) error {
	if len(ids) != len(entries) {
		return errors.New("ids and entries length mismatch")
	}
	for i, id := range ids {
		if err := m.SetActive(ctx, id, active, entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockPlayerStore) UpdateProfile(_ context.Context, id int64, role player.Role, classID int64, entry auditdomain.Entry) error {
	p, ok := m.players[id]
	if !ok {
		return errors.New("not found")
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	p.Role = role
	p.ClassID = classID
	m.players[id] = p
	m.audits = append(m.audits, entry)
	return nil
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// --- class store mock ---

type mockClassStore struct {
	classes map[int64]class.Class
	nextID  int64
}

func newMockClassStore() *mockClassStore {
	return &mockClassStore{classes: make(map[int64]class.Class)}
}

func (m *mockClassStore) add(c class.Class) class.Class {
	if c.ID == 0 {
		m.nextID++
		c.ID = m.nextID
	}
	m.classes[c.ID] = c
	return c
}

func (m *mockClassStore) GetByID(_ context.Context, id int64) (class.Class, error) {
	c, ok := m.classes[id]
	if !ok {
		return class.Class{}, errors.New("not found")
	}
	return c, nil
}

func (m *mockClassStore) Upsert(_ context.Context, value class.Class) (int64, error) {
	for _, c := range m.classes {
		if c.Name == value.Name {
			value.ID = c.ID
			m.classes[c.ID] = value
			return c.ID, nil
		}
	}
	m.nextID++
	value.ID = m.nextID
	m.classes[value.ID] = value
	return value.ID, nil
}

// --- loot store mock ---

type lootPair struct{ bossID, itemID int64 }

type mockLootStore struct {
	items  map[int64]loot.Item
	drops  map[lootPair]bool
	nextID int64
}

func newMockLootStore() *mockLootStore {
	return &mockLootStore{items: make(map[int64]loot.Item), drops: make(map[lootPair]bool)}
}

func (m *mockLootStore) add(it loot.Item) loot.Item {
	if it.ID == 0 {
		m.nextID++
		it.ID = m.nextID
	}
	m.items[it.ID] = it
	return it
}

func (m *mockLootStore) addDrop(bossID, itemID int64) {
	m.drops[lootPair{bossID, itemID}] = true
}

func (m *mockLootStore) GetItemByID(_ context.Context, id int64) (loot.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return loot.Item{}, errors.New("not found")
	}
	return it, nil
}

func (m *mockLootStore) DropExists(_ context.Context, bossID, lootItemID int64) (bool, error) {
	return m.drops[lootPair{bossID, lootItemID}], nil
}

func (m *mockLootStore) GetItemByName(_ context.Context, name string) (loot.Item, bool, error) {
	for _, it := range m.items {
		if it.Name == name {
			return it, true, nil
		}
	}
	return loot.Item{}, false, nil
}

func (m *mockLootStore) UpsertItem(_ context.Context, value loot.Item) (int64, error) {
	for _, it := range m.items {
		if it.Name == value.Name {
			value.ID = it.ID
			m.items[it.ID] = value
			return it.ID, nil
		}
	}
	m.nextID++
	value.ID = m.nextID
	m.items[value.ID] = value
	return value.ID, nil
}

func (m *mockLootStore) SaveDrop(_ context.Context, value loot.Drop) error {
	m.drops[lootPair{value.BossID, value.LootItemID}] = true
	return nil
}

// --- boss/raid store mock ---

type mockRaidStore struct {
	raids  map[int64]raid.Raid
	bosses map[int64]raid.Boss
	nextID int64
}

func newMockRaidStore() *mockRaidStore {
	return &mockRaidStore{raids: make(map[int64]raid.Raid), bosses: make(map[int64]raid.Boss)}
}

func (m *mockRaidStore) addRaid(r raid.Raid) raid.Raid {
	if r.ID == 0 {
		m.nextID++
		r.ID = m.nextID
	}
	m.raids[r.ID] = r
	return r
}

func (m *mockRaidStore) addBoss(b raid.Boss) raid.Boss {
	if b.ID == 0 {
		m.nextID++
		b.ID = m.nextID
	}
	m.bosses[b.ID] = b
	return b
}

func (m *mockRaidStore) GetBossByID(_ context.Context, id int64) (raid.Boss, error) {
	b, ok := m.bosses[id]
	if !ok {
		return raid.Boss{}, errors.New("not found")
	}
	return b, nil
}

func (m *mockRaidStore) ListRaids(_ context.Context) ([]raid.Raid, error) {
	out := make([]raid.Raid, 0, len(m.raids))
	for _, r := range m.raids {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRaidStore) GetBossByName(_ context.Context, raidID int64, name string) (raid.Boss, bool, error) {
	for _, b := range m.bosses {
		if b.RaidID == raidID && b.Name == name {
			return b, true, nil
		}
	}
	return raid.Boss{}, false, nil
}

func (m *mockRaidStore) UpsertRaid(_ context.Context, value raid.Raid) (int64, error) {
	for _, r := range m.raids {
		if r.Name == value.Name {
			return r.ID, nil
		}
	}
	m.nextID++
	value.ID = m.nextID
	m.raids[value.ID] = value
	return value.ID, nil
}

func (m *mockRaidStore) UpsertBoss(_ context.Context, value raid.Boss) (int64, error) {
	for _, b := range m.bosses {
		if b.RaidID == value.RaidID && b.Name == value.Name {
			return b.ID, nil
		}
	}
	m.nextID++
	value.ID = m.nextID
	m.bosses[value.ID] = value
	return value.ID, nil
}

// --- choice store mock ---

type weekPlayer struct{ weekID, playerID int64 }

type mockChoiceStore struct {
	choices map[weekPlayer]srchoice.Choice
	audits  []auditdomain.Entry
	nextID  int64
}

func newMockChoiceStore() *mockChoiceStore {
	return &mockChoiceStore{choices: make(map[weekPlayer]srchoice.Choice)}
}

func (m *mockChoiceStore) GetByWeekPlayer(_ context.Context, weekID, playerID int64) (srchoice.Choice, bool, error) {
	c, ok := m.choices[weekPlayer{weekID, playerID}]
	return c, ok, nil
}

func (m *mockChoiceStore) ApplyChoice(_ context.Context, value srchoice.Choice, entry auditdomain.Entry) (srchoice.Choice, error) {
	if err := entry.Validate(); err != nil {
		return srchoice.Choice{}, err
	}
	key := weekPlayer{value.WeekID, value.PlayerID}
	if existing, ok := m.choices[key]; ok {
		value.ID = existing.ID
		value.Locked = existing.Locked
	} else {
		m.nextID++
		value.ID = m.nextID
	}
	m.choices[key] = value
	m.audits = append(m.audits, entry)
	return value, nil
}

func (m *mockChoiceStore) SetReceived(_ context.Context, weekID, playerID int64, received bool, updatedAt time.Time, entry auditdomain.Entry) (srchoice.Choice, error) {
	if err := entry.Validate(); err != nil {
		return srchoice.Choice{}, err
	}
	key := weekPlayer{weekID, playerID}
	c, ok := m.choices[key]
	if !ok {
		m.nextID++
		c = srchoice.Choice{ID: m.nextID, WeekID: weekID, PlayerID: playerID}
	}
	c.Received = received
	c.UpdatedAt = updatedAt
	m.choices[key] = c
	m.audits = append(m.audits, entry)
	return c, nil
}

func (m *mockChoiceStore) CountByWeek(_ context.Context, weekID int64) (int64, error) {
	var n int64
	for key := range m.choices {
		if key.weekID == weekID {
			n++
		}
	}
	return n, nil
}

func (m *mockChoiceStore) SetLockAll(_ context.Context, weekID int64, lock bool, entryFor func(affected int64) auditdomain.Entry) (int64, error) {
	var affected int64
	for key, c := range m.choices {
		if key.weekID == weekID {
			c.Locked = lock
			m.choices[key] = c
			affected++
		}
	}
	entry := entryFor(affected)
	if err := entry.Validate(); err != nil {
		return 0, err
	}
	m.audits = append(m.audits, entry)
	return affected, nil
}

func (m *mockChoiceStore) UnlockExceptKilled(_ context.Context, weekID int64, killedBossIDs []int64, entryFor func(unlocked int64) auditdomain.Entry) (int64, error) {
	killed := make(map[int64]bool, len(killedBossIDs))
	for _, id := range killedBossIDs {
		killed[id] = true
	}
	var unlocked int64
	for key, c := range m.choices {
		if key.weekID != weekID {
			continue
		}
		if c.BossID != nil && killed[*c.BossID] {
			continue
		}
		if c.Locked {
			c.Locked = false
			m.choices[key] = c
		}
		unlocked++
	}
	entry := entryFor(unlocked)
	if err := entry.Validate(); err != nil {
		return 0, err
	}
	m.audits = append(m.audits, entry)
	return unlocked, nil
}

// --- kill store mock ---

type weekBoss struct{ weekID, bossID int64 }

type mockKillStore struct {
	kills  map[weekBoss]raid.Kill
	audits []auditdomain.Entry
	nextID int64
}

func newMockKillStore() *mockKillStore {
	return &mockKillStore{kills: make(map[weekBoss]raid.Kill)}
}

func (m *mockKillStore) Toggle(_ context.Context, weekID, bossID int64, entryFor func(prev *bool, now bool) auditdomain.Entry) (raid.Kill, error) {
	key := weekBoss{weekID, bossID}
	var prev *bool
	now := true
	k, ok := m.kills[key]
	if ok {
		was := k.Killed
		prev = &was
		now = !was
		k.Killed = now
	} else {
		m.nextID++
		k = raid.Kill{ID: m.nextID, WeekID: weekID, BossID: bossID, Killed: true}
	}
	entry := entryFor(prev, now)
	if err := entry.Validate(); err != nil {
		return raid.Kill{}, err
	}
	m.kills[key] = k
	m.audits = append(m.audits, entry)
	return k, nil
}

func (m *mockKillStore) KilledBossIDs(_ context.Context, weekID int64) ([]int64, error) {
	var ids []int64
	for key, k := range m.kills {
		if key.weekID == weekID && k.Killed {
			ids = append(ids, key.bossID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockKillStore) CountKilled(_ context.Context, weekID int64) (int64, error) {
	ids, _ := m.KilledBossIDs(context.Background(), weekID)
	return int64(len(ids)), nil
}

// --- digest mock ---

type mockDigestSender struct {
	subjects []string
	fail     bool
}

func (m *mockDigestSender) SendDigest(_ context.Context, subject, html string) error {
	if m.fail {
		return errors.New("mail provider down")
	}
	m.subjects = append(m.subjects, subject)
	return nil
}
