package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
)

var ErrNoSubscriber = errors.New("no stream subscribed")

type FieldOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Field struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Label     string        `json:"label"`
	Required  bool          `json:"required"`
	Options   []FieldOption `json:"options,omitempty"`
	MinRating *int          `json:"minRating,omitempty"`
	MaxRating *int          `json:"maxRating,omitempty"`
}

type Form struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Fields    []Field `json:"fields"`
	CreatedAt int64   `json:"createdAt"`
}

type Snapshot struct {
	FormID         string `json:"formId"`
	Fields         []any  `json:"fields"`
	TotalResponses int    `json:"totalResponses"`
}

type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(time.Second))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Backend is an in-memory stand-in for the forms service: REST endpoints
// under /api/forms and the analytics push channel under /ws/forms/{id}.
type Backend struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu          sync.Mutex
	seq         int
	forms       []Form
	responses   map[string][]json.RawMessage
	analytics   map[string]Snapshot
	subscribers map[string][]*subscriber
	greetings   map[string][]string
	closed      map[string]int
	writeError  string
}

func NewBackend() *Backend {
	b := &Backend{
		responses:   map[string][]json.RawMessage{},
		analytics:   map[string]Snapshot{},
		subscribers: map[string][]*subscriber{},
		greetings:   map[string][]string{},
		closed:      map[string]int{},
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/forms", b.createForm).Methods(http.MethodPost)
	router.HandleFunc("/api/forms", b.listForms).Methods(http.MethodGet)
	router.HandleFunc("/api/forms/{id}", b.getForm).Methods(http.MethodGet)
	router.HandleFunc("/api/forms/{id}/analytics", b.getAnalytics).Methods(http.MethodGet)
	router.HandleFunc("/api/forms/{id}/responses", b.submitResponse).Methods(http.MethodPost)
	router.HandleFunc("/ws/forms/{id}", b.stream).Methods(http.MethodGet)

	b.server = httptest.NewServer(cors.Default().Handler(router))
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) Close() {
	b.mu.Lock()
	for _, subs := range b.subscribers {
		for _, s := range subs {
			_ = s.conn.Close()
		}
	}
	b.mu.Unlock()
	b.server.Close()
}

// RejectWrites makes every subsequent POST fail with message.
func (b *Backend) RejectWrites(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeError = message
}

func (b *Backend) SeedForm(title string, fields ...Field) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.storeLocked(Form{Title: title, Fields: fields})
}

func (b *Backend) Forms() []Form {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.forms)
}

func (b *Backend) Responses(formID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.responses[formID])
}

func (b *Backend) SetTotalResponses(formID string, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.analytics[formID] = Snapshot{FormID: formID, Fields: []any{}, TotalResponses: total}
}

func (b *Backend) Greetings(formID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.greetings[formID])
}

func (b *Backend) OpenStreams(formID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[formID])
}

func (b *Backend) ClosedStreams(formID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed[formID]
}

// Push writes payload to every greeted subscriber of the form, waiting up to
// a second for one to show up.
func (b *Backend) Push(formID string, payload []byte) error {
	deadline := time.Now().Add(time.Second)
	for {
		b.mu.Lock()
		subs := slices.Clone(b.subscribers[formID])
		b.mu.Unlock()

		if len(subs) > 0 {
			for _, s := range subs {
				if err := s.write(payload); err != nil {
					return fmt.Errorf("pushing to %s: %w", formID, err)
				}
			}
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("pushing to %s: %w", formID, ErrNoSubscriber)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (b *Backend) PushSnapshot(formID string, total int) error {
	payload, err := json.Marshal(Snapshot{FormID: formID, Fields: []any{}, TotalResponses: total})
	if err != nil {
		return err
	}
	return b.Push(formID, payload)
}

func (b *Backend) storeLocked(form Form) string {
	b.seq++
	form.ID = "form-" + strconv.Itoa(b.seq)
	form.CreatedAt = time.Now().Unix()
	if form.Fields == nil {
		form.Fields = []Field{}
	}
	b.forms = append(b.forms, form)
	return form.ID
}

func (b *Backend) findLocked(id string) (Form, bool) {
	idx := slices.IndexFunc(b.forms, func(f Form) bool { return f.ID == id })
	if idx < 0 {
		return Form{}, false
	}
	return b.forms[idx], true
}

func (b *Backend) rejection() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeError
}

func (b *Backend) createForm(w http.ResponseWriter, r *http.Request) {
	if msg := b.rejection(); msg != "" {
		replyJSON(w, http.StatusServiceUnavailable, map[string]string{"message": msg})
		return
	}

	var body Form
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		replyJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	b.mu.Lock()
	id := b.storeLocked(Form{Title: body.Title, Fields: body.Fields})
	form, _ := b.findLocked(id)
	b.mu.Unlock()

	replyJSON(w, http.StatusCreated, form)
}

func (b *Backend) listForms(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	b.mu.Lock()
	forms := slices.Clone(b.forms)
	b.mu.Unlock()

	slices.Reverse(forms)
	if len(forms) > limit {
		forms = forms[:limit]
	}
	if forms == nil {
		forms = []Form{}
	}

	replyJSON(w, http.StatusOK, forms)
}

func (b *Backend) getForm(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	form, ok := b.findLocked(mux.Vars(r)["id"])
	b.mu.Unlock()

	if !ok {
		replyJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	replyJSON(w, http.StatusOK, form)
}

func (b *Backend) getAnalytics(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	_, ok := b.findLocked(id)
	snapshot, seeded := b.analytics[id]
	if !seeded {
		snapshot = Snapshot{FormID: id, Fields: []any{}, TotalResponses: len(b.responses[id])}
	}
	b.mu.Unlock()

	if !ok {
		replyJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	replyJSON(w, http.StatusOK, snapshot)
}

func (b *Backend) submitResponse(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if msg := b.rejection(); msg != "" {
		replyJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": msg})
		return
	}

	var body struct {
		Answers json.RawMessage `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Answers) == 0 {
		replyJSON(w, http.StatusBadRequest, map[string]string{"error": "answers are required"})
		return
	}

	b.mu.Lock()
	_, ok := b.findLocked(id)
	if ok {
		b.responses[id] = append(b.responses[id], body.Answers)
	}
	b.mu.Unlock()

	if !ok {
		replyJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	replyJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (b *Backend) stream(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	_, greeting, err := conn.ReadMessage()
	if err != nil {
		return
	}

	sub := &subscriber{conn: conn}
	b.mu.Lock()
	b.greetings[id] = append(b.greetings[id], string(greeting))
	b.subscribers[id] = append(b.subscribers[id], sub)
	b.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.mu.Lock()
	b.subscribers[id] = slices.DeleteFunc(b.subscribers[id], func(s *subscriber) bool { return s == sub })
	b.closed[id]++
	b.mu.Unlock()
}

func replyJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
