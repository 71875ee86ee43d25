package web

import (
	"net/http"
	"strconv"
	"strings"

	"softres/internal/application/listutil"
	"softres/internal/application/projections"
	"softres/internal/domain/apperr"
)

// handleListClasses lists the playable classes (GET /api/classes).
func handleListClasses(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryListClasses(r.Context(), stores.ClassStore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleListBosses lists the raid's bosses in encounter order
// (GET /api/bosses).
func handleListBosses(w http.ResponseWriter, r *http.Request) {
	raidID, ok := queryInt64(r, "raidId")
	if !ok {
		badRequest(w, r, "raidId must be an integer")
		return
	}
	var id int64
	if raidID != nil {
		id = *raidID
	}
	rows, err := projections.QueryListBosses(r.Context(), id, stores.RaidStore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleListLoot lists the loot catalog, paginated, optionally filtered to
// what one class may reserve (GET /api/loot?classId=&page=&per_page=).
func handleListLoot(w http.ResponseWriter, r *http.Request) {
	classID, ok := queryInt64(r, "classId")
	if !ok {
		badRequest(w, r, "classId must be an integer")
		return
	}
	rows, err := projections.QueryListLoot(r.Context(), projections.GetLootInput{ClassID: classID},
		projections.GetLootDeps{LootStore: stores.LootStore, ClassStore: stores.ClassStore})
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, info := listutil.Page(rows, listutil.ParsePageParams(r.URL.Query()))
	writeJSON(w, http.StatusOK, map[string]any{"items": page, "page": info})
}

// handleLootLabels resolves loot item ids to names
// (GET /api/loot/labels?ids=1,2,3). Non-numeric ids are ignored; an empty
// list yields an empty map.
func handleLootLabels(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}

	labels, err := projections.QueryLootLabels(r.Context(), ids, stores.LootStore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// handleLootForBoss lists one boss's drop table (GET /api/bosses/{id}/loot).
func handleLootForBoss(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, apperr.New(apperr.KindInvalidBoss, "boss id must be a positive integer"))
		return
	}
	rows, err := projections.QueryLootForBoss(r.Context(), id, stores.RaidStore, stores.LootStore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleBossesForItem lists the bosses that drop an item
// (GET /api/loot/{id}/bosses).
func handleBossesForItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, apperr.New(apperr.KindInvalidItem, "loot item id must be a positive integer"))
		return
	}
	rows, err := projections.QueryBossesForItem(r.Context(), id, stores.LootStore, stores.RaidStore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
