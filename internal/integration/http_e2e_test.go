//go:build integration

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "hotel_inventory/internal/adapters/http_server"
	"hotel_inventory/internal/app"
	"hotel_inventory/internal/storage/sqldb"
)

// ---------- helpers ----------

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=hotels"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotels?charset=utf8mb4", resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sqldb.Open(context.Background(), sqldb.Options{Dialect: sqldb.MySQL, DSN: dsn, MaxOpenConns: 16})
		return e
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := sqldb.Migrate(context.Background(), db, sqldb.MySQL); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newAPI(t *testing.T, db *sql.DB) *httptest.Server {
	t.Helper()
	repo := sqldb.New(db, sqldb.MySQL)
	srv := server.New(server.Options{Timeout: 10 * time.Second})
	srv.MountHandlers(&server.Handlers{
		Hotels: app.NewHotelCatalog(repo),
		Rooms:  app.NewRoomInventory(repo),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func send(t *testing.T, ts *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// ---------- the tests ----------

func TestHTTP_E2E_MySQL_Scenario(t *testing.T) {
	ts := newAPI(t, startMySQL(t))

	status, h := send(t, ts, "POST", "/hotels", `{"name":"Demo","address":"Street 1","city":"X","tax_id":"T1","max_rooms":5}`)
	if status != http.StatusCreated {
		t.Fatalf("create hotel: %d %v", status, h)
	}
	id := h["id"].(string)

	room := func(typ, acc string, qty int) string {
		return fmt.Sprintf(`{"hotel_id":%q,"type":%q,"accommodation":%q,"quantity":%d}`, id, typ, acc, qty)
	}

	if status, body := send(t, ts, "POST", "/rooms", room("Standard", "Double", 5)); status != http.StatusCreated {
		t.Fatalf("create room: %d %v", status, body)
	}
	if status, body := send(t, ts, "POST", "/rooms", room("Standard", "Double", 1)); status != 422 || body["code"] != "duplicate_room_type" {
		t.Fatalf("duplicate: %d %v", status, body)
	}
	if status, body := send(t, ts, "POST", "/rooms", room("Standard", "Single", 1)); status != 422 || body["code"] != "capacity_exceeded" {
		t.Fatalf("capacity: %d %v", status, body)
	}
	if status, body := send(t, ts, "POST", "/rooms", room("Junior", "Double", 1)); status != 422 || body["code"] != "validation" {
		t.Fatalf("accommodation: %d %v", status, body)
	}

	if status, _ := send(t, ts, "DELETE", "/hotels/"+id, ""); status != http.StatusNoContent {
		t.Fatalf("delete hotel: %d", status)
	}
	if status, _ := send(t, ts, "GET", "/hotels/"+id, ""); status != http.StatusNotFound {
		t.Fatalf("deleted hotel still visible: %d", status)
	}
}

// Concurrent creates for one hotel must never push it past max_rooms.
func TestHTTP_E2E_MySQL_ConcurrentCreatesRespectCapacity(t *testing.T) {
	ts := newAPI(t, startMySQL(t))

	status, h := send(t, ts, "POST", "/hotels", `{"name":"Busy","address":"Street 2","city":"Y","tax_id":"T2","max_rooms":6}`)
	if status != http.StatusCreated {
		t.Fatalf("create hotel: %d %v", status, h)
	}
	id := h["id"].(string)

	combos := [][2]string{
		{"Standard", "Single"}, {"Standard", "Double"},
		{"Junior", "Triple"}, {"Junior", "Quadruple"},
		{"Suite", "Single"}, {"Suite", "Double"}, {"Suite", "Triple"},
	}
	var wg sync.WaitGroup
	for _, c := range combos {
		wg.Add(1)
		go func(typ, acc string) {
			defer wg.Done()
			body := fmt.Sprintf(`{"hotel_id":%q,"type":%q,"accommodation":%q,"quantity":2}`, id, typ, acc)
			resp, err := ts.Client().Post(ts.URL+"/rooms", "application/json", strings.NewReader(body))
			if err != nil {
				t.Errorf("create %s/%s: %v", typ, acc, err)
				return
			}
			_ = resp.Body.Close()
		}(c[0], c[1])
	}
	wg.Wait()

	_, got := send(t, ts, "GET", "/hotels/"+id, "")
	rooms, _ := got["rooms"].([]any)
	total := 0
	for _, r := range rooms {
		total += int(r.(map[string]any)["quantity"].(float64))
	}
	if total != 6 || len(rooms) != 3 {
		t.Fatalf("want 3 entries totalling 6, got %d entries totalling %d", len(rooms), total)
	}
}
