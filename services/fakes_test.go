package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
	"github.com/Dosada05/gameet/storage"
	"github.com/Dosada05/gameet/utils"
	"golang.org/x/crypto/bcrypt"
)

const testDefaultAvatar = "default-avatar.png"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func init() {
	utils.BcryptCost = bcrypt.MinCost
}

func pngUpload(name string) *Upload {
	return &Upload{Filename: name, Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memDB is an in-memory stand-in for the postgres schema shared by every fake repository.
type memDB struct {
	mu           sync.Mutex
	nextID       int
	users        map[int]*models.User
	events       map[int]*models.Event
	eventGames   map[int][]int
	eventPhotos  map[int][]int
	games        map[int]*models.Game
	tags         map[int]*models.Tag
	gameTags     map[[2]int]bool
	photos       map[int]*models.Photo
	participants map[[2]int]*models.Participant
	reviews      map[int]*models.Review
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[int]*models.User{},
		events:       map[int]*models.Event{},
		eventGames:   map[int][]int{},
		eventPhotos:  map[int][]int{},
		games:        map[int]*models.Game{},
		tags:         map[int]*models.Tag{},
		gameTags:     map[[2]int]bool{},
		photos:       map[int]*models.Photo{},
		participants: map[[2]int]*models.Participant{},
		reviews:      map[int]*models.Review{},
	}
}

func (db *memDB) id() int {
	db.nextID++
	return db.nextID
}

func (db *memDB) photoReferenced(id int) bool {
	for _, u := range db.users {
		if u.PhotoID != nil && *u.PhotoID == id {
			return true
		}
	}
	for _, g := range db.games {
		for _, slot := range models.PhotoSlots {
			if p := g.SlotID(slot); p != nil && *p == id {
				return true
			}
		}
	}
	for _, ids := range db.eventPhotos {
		for _, pid := range ids {
			if pid == id {
				return true
			}
		}
	}
	for _, r := range db.reviews {
		if r.PhotoID != nil && *r.PhotoID == id {
			return true
		}
	}
	return false
}

func (db *memDB) photoExists(id *int) bool {
	if id == nil {
		return true
	}
	_, ok := db.photos[*id]
	return ok
}

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(tx repositories.SQLExecutor) error) error {
	return fn(nil)
}

// --- users ---

type fakeUserRepo struct {
	db         *memDB
	createHook func(*models.User) error
}

func (r *fakeUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.createHook != nil {
		if err := r.createHook(user); err != nil {
			return err
		}
	}
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	if !r.db.photoExists(user.PhotoID) {
		return repositories.ErrUserPhotoInvalid
	}
	user.ID = r.db.id()
	user.CreationDate = time.Now()
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	for _, u := range r.db.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.db.users, id)
	for eid, e := range r.db.events {
		if e.AuthorID == id {
			delete(r.db.events, eid)
		}
	}
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := make([]models.User, 0)
	for _, u := range r.db.users {
		if filter.Search == "" || strings.Contains(u.Pseudo, filter.Search) || strings.Contains(u.Email, filter.Search) {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *fakeUserRepo) Count(ctx context.Context, adminsOnly bool) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, u := range r.db.users {
		if !adminsOnly || u.IsAdmin {
			n++
		}
	}
	return n, nil
}

// --- photos ---

type fakePhotoRepo struct {
	db *memDB
}

func (r *fakePhotoRepo) Create(ctx context.Context, exec repositories.SQLExecutor, photo *models.Photo) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.photos {
		if p.URL == photo.URL {
			return repositories.ErrPhotoURLConflict
		}
	}
	photo.ID = r.db.id()
	photo.CreatedAt = time.Now()
	cp := *photo
	r.db.photos[photo.ID] = &cp
	return nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id int) (*models.Photo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.photos[id]
	if !ok {
		return nil, repositories.ErrPhotoNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePhotoRepo) GetByURL(ctx context.Context, url string) (*models.Photo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.photos {
		if p.URL == url {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPhotoNotFound
}

func (r *fakePhotoRepo) Ensure(ctx context.Context, url string) (*models.Photo, error) {
	if p, err := r.GetByURL(ctx, url); err == nil {
		return p, nil
	}
	p := &models.Photo{URL: url}
	return p, r.Create(ctx, nil, p)
}

func (r *fakePhotoRepo) UpdateURL(ctx context.Context, id int, url string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.photos[id]
	if !ok {
		return repositories.ErrPhotoNotFound
	}
	p.URL = url
	return nil
}

func (r *fakePhotoRepo) IsReferenced(ctx context.Context, id int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.photos[id]; !ok {
		return false, repositories.ErrPhotoNotFound
	}
	return r.db.photoReferenced(id), nil
}

func (r *fakePhotoRepo) DeleteIfUnreferenced(ctx context.Context, id int, protectedURL string) (string, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.photos[id]
	if !ok || p.URL == protectedURL || r.db.photoReferenced(id) {
		return "", false, nil
	}
	delete(r.db.photos, id)
	return p.URL, true, nil
}

func (r *fakePhotoRepo) ListOrphans(ctx context.Context, createdBefore time.Time, protectedURL string, limit int) ([]models.Photo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Photo, 0)
	for _, p := range r.db.photos {
		if p.CreatedAt.Before(createdBefore) && p.URL != protectedURL && !r.db.photoReferenced(p.ID) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePhotoRepo) CountExisting(ctx context.Context, ids []int) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, id := range uniqueIDs(ids) {
		if _, ok := r.db.photos[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *fakePhotoRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.photos), nil
}

// --- events ---

type fakeEventRepo struct {
	db *memDB
}

func (r *fakeEventRepo) Create(ctx context.Context, exec repositories.SQLExecutor, e *models.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[e.AuthorID]; !ok {
		return repositories.ErrEventAuthorInvalid
	}
	e.ID = r.db.id()
	e.CreatedAt = time.Now()
	cp := *e
	r.db.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.EventSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.EventSummary, 0)
	for _, e := range r.db.events {
		if filter.UpcomingAfter != nil && !e.ScheduledDate.After(*filter.UpcomingAfter) {
			continue
		}
		out = append(out, models.EventSummary{ID: e.ID, Name: e.Name, ScheduledDate: e.ScheduledDate, Location: e.Location, MaxCapacity: e.MaxCapacity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, exec repositories.SQLExecutor, e *models.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	cp := *e
	r.db.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.db.events, id)
	delete(r.db.eventGames, id)
	delete(r.db.eventPhotos, id)
	return nil
}

func (r *fakeEventRepo) ReplaceGames(ctx context.Context, exec repositories.SQLExecutor, eventID int, gameIDs []int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range gameIDs {
		if _, ok := r.db.games[id]; !ok {
			return repositories.ErrEventGameInvalid
		}
	}
	r.db.eventGames[eventID] = append([]int(nil), gameIDs...)
	return nil
}

func (r *fakeEventRepo) ReplacePhotos(ctx context.Context, exec repositories.SQLExecutor, eventID int, photoIDs []int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range photoIDs {
		if _, ok := r.db.photos[id]; !ok {
			return repositories.ErrEventPhotoInvalid
		}
	}
	r.db.eventPhotos[eventID] = append([]int(nil), photoIDs...)
	return nil
}

func (r *fakeEventRepo) ListGames(ctx context.Context, eventID int) ([]models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Game, 0)
	for _, id := range r.db.eventGames[eventID] {
		out = append(out, *r.db.games[id])
	}
	return out, nil
}

func (r *fakeEventRepo) ListPhotos(ctx context.Context, eventID int) ([]models.Photo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Photo, 0)
	for _, id := range r.db.eventPhotos[eventID] {
		out = append(out, *r.db.photos[id])
	}
	return out, nil
}

func (r *fakeEventRepo) Count(ctx context.Context, upcomingAfter *time.Time) (int, error) {
	events, err := r.List(ctx, models.EventFilter{UpcomingAfter: upcomingAfter})
	return len(events), err
}

// --- participants ---

type fakeParticipantRepo struct {
	db *memDB
}

func (r *fakeParticipantRepo) Add(ctx context.Context, exec repositories.SQLExecutor, p *models.Participant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[p.EventID]; !ok {
		return repositories.ErrParticipantEventInvalid
	}
	if _, ok := r.db.users[p.UserID]; !ok {
		return repositories.ErrParticipantUserInvalid
	}
	key := [2]int{p.EventID, p.UserID}
	if _, ok := r.db.participants[key]; ok {
		return repositories.ErrParticipantConflict
	}
	p.JoinedAt = time.Now()
	cp := *p
	r.db.participants[key] = &cp
	return nil
}

func (r *fakeParticipantRepo) Remove(ctx context.Context, eventID, userID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]int{eventID, userID}
	if _, ok := r.db.participants[key]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(r.db.participants, key)
	return nil
}

func (r *fakeParticipantRepo) Exists(ctx context.Context, eventID, userID int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.participants[[2]int{eventID, userID}]
	return ok, nil
}

func (r *fakeParticipantRepo) CountByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for key := range r.db.participants {
		if key[0] == eventID {
			n++
		}
	}
	return n, nil
}

func (r *fakeParticipantRepo) ListByEvent(ctx context.Context, eventID int) ([]models.Participant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Participant, 0)
	for key, p := range r.db.participants {
		if key[0] == eventID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeParticipantRepo) DeleteByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for key := range r.db.participants {
		if key[1] == userID {
			delete(r.db.participants, key)
		}
	}
	return nil
}

// --- reviews ---

type fakeReviewRepo struct {
	db *memDB
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if !r.db.photoExists(review.PhotoID) {
		return repositories.ErrReviewPhotoInvalid
	}
	review.ID = r.db.id()
	review.CreatedAt = time.Now()
	cp := *review
	r.db.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id int) (*models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rv, ok := r.db.reviews[id]
	if !ok {
		return nil, repositories.ErrReviewNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r *fakeReviewRepo) ListByEvent(ctx context.Context, eventID int) ([]models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Review, 0)
	for _, rv := range r.db.reviews {
		if rv.EventID == eventID {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, review *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[review.ID]; !ok {
		return repositories.ErrReviewNotFound
	}
	if !r.db.photoExists(review.PhotoID) {
		return repositories.ErrReviewPhotoInvalid
	}
	cp := *review
	r.db.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[id]; !ok {
		return repositories.ErrReviewNotFound
	}
	delete(r.db.reviews, id)
	return nil
}

func (r *fakeReviewRepo) DeleteByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, rv := range r.db.reviews {
		if rv.UserID == userID {
			delete(r.db.reviews, id)
		}
	}
	return nil
}

func (r *fakeReviewRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.reviews), nil
}

// --- games and tags ---

type fakeGameRepo struct {
	db         *memDB
	createHook func(*models.Game) error
}

func (r *fakeGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, g *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.createHook != nil {
		if err := r.createHook(g); err != nil {
			return err
		}
	}
	if !r.db.photoExists(g.BannerID) || !r.db.photoExists(g.LogoID) || !r.db.photoExists(g.GridID) {
		return repositories.ErrGamePhotoInvalid
	}
	g.ID = r.db.id()
	g.CreatedAt = time.Now()
	cp := *g
	r.db.games[g.ID] = &cp
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, id int) (*models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGameRepo) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Game, 0)
	for _, g := range r.db.games {
		if filter.Approved != nil && g.IsApproved != *filter.Approved {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeGameRepo) Update(ctx context.Context, exec repositories.SQLExecutor, g *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.games[g.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	if !r.db.photoExists(g.BannerID) || !r.db.photoExists(g.LogoID) || !r.db.photoExists(g.GridID) {
		return repositories.ErrGamePhotoInvalid
	}
	cp := *g
	r.db.games[g.ID] = &cp
	return nil
}

func (r *fakeGameRepo) Delete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.db.games, id)
	for key := range r.db.gameTags {
		if key[0] == id {
			delete(r.db.gameTags, key)
		}
	}
	return nil
}

func (r *fakeGameRepo) CountExisting(ctx context.Context, ids []int) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, id := range uniqueIDs(ids) {
		if _, ok := r.db.games[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *fakeGameRepo) Count(ctx context.Context, approved *bool) (int, error) {
	games, err := r.List(ctx, models.GameFilter{Approved: approved})
	return len(games), err
}

type fakeTagRepo struct {
	db *memDB
}

func (r *fakeTagRepo) List(ctx context.Context) ([]models.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Tag, 0)
	for _, t := range r.db.tags {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTagRepo) ListByGame(ctx context.Context, gameID int) ([]models.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Tag, 0)
	for key := range r.db.gameTags {
		if key[0] == gameID {
			out = append(out, *r.db.tags[key[1]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTagRepo) Upsert(ctx context.Context, name string) (*models.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.tags {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	t := &models.Tag{ID: r.db.id(), Name: name}
	r.db.tags[t.ID] = t
	cp := *t
	return &cp, nil
}

func (r *fakeTagRepo) AttachToGame(ctx context.Context, gameID, tagID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.games[gameID]; !ok {
		return repositories.ErrGameTagGameInvalid
	}
	if _, ok := r.db.tags[tagID]; !ok {
		return repositories.ErrTagNotFound
	}
	r.db.gameTags[[2]int{gameID, tagID}] = true
	return nil
}

func (r *fakeTagRepo) DetachFromGame(ctx context.Context, gameID, tagID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]int{gameID, tagID}
	if !r.db.gameTags[key] {
		return repositories.ErrGameTagNotFound
	}
	delete(r.db.gameTags, key)
	return nil
}

// --- storage and broadcasting ---

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Save(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.SaveResult, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return &storage.SaveResult{Key: key, Size: int64(len(data))}, nil
}

func (s *memStore) Open(ctx context.Context, key string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), ContentType: storage.ContentTypeFor(key), Size: int64(len(data))}, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type recordedMessage struct {
	room    string
	message interface{}
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []recordedMessage
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, recordedMessage{room: roomID, message: message})
}

// --- fixture ---

type fixture struct {
	db           *memDB
	store        *memStore
	hub          *fakeBroadcaster
	users        *fakeUserRepo
	photos       *fakePhotoRepo
	events       *fakeEventRepo
	participants *fakeParticipantRepo
	reviews      *fakeReviewRepo
	games        *fakeGameRepo
	tags         *fakeTagRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newMemDB()
	return &fixture{
		db:           db,
		store:        newMemStore(),
		hub:          &fakeBroadcaster{},
		users:        &fakeUserRepo{db: db},
		photos:       &fakePhotoRepo{db: db},
		events:       &fakeEventRepo{db: db},
		participants: &fakeParticipantRepo{db: db},
		reviews:      &fakeReviewRepo{db: db},
		games:        &fakeGameRepo{db: db},
		tags:         &fakeTagRepo{db: db},
	}
}

func (f *fixture) userService() UserService {
	return NewUserService(fakeTx{}, f.users, f.participants, f.reviews, f.photos, f.store, testDefaultAvatar, discardLogger())
}

func (f *fixture) eventService() *eventService {
	return NewEventService(fakeTx{}, f.events, f.participants, f.reviews, f.photos, f.store, testDefaultAvatar, f.hub, discardLogger()).(*eventService)
}

func (f *fixture) reviewService() *reviewService {
	return NewReviewService(f.events, f.participants, f.reviews, f.hub).(*reviewService)
}

func (f *fixture) participantService() ParticipantService {
	return NewParticipantService(f.events, f.users, f.participants, f.hub)
}

func (f *fixture) gameService() GameService {
	return NewGameService(fakeTx{}, f.games, f.tags, f.photos, f.store, testDefaultAvatar, discardLogger())
}

func (f *fixture) tagService() TagService {
	return NewTagService(f.tags, f.games)
}

func (f *fixture) photoService() PhotoService {
	return NewPhotoService(f.photos, f.store, testDefaultAvatar, discardLogger())
}

// seedUser inserts a user directly and returns the matching actor.
func (f *fixture) seedUser(t *testing.T, email string, admin bool) models.Actor {
	t.Helper()
	u := &models.User{Pseudo: strings.Split(email, "@")[0], Email: email, IsAdmin: admin, BirthDate: time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC)}
	if err := f.users.Create(context.Background(), nil, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return models.Actor{ID: u.ID, Email: u.Email, IsAdmin: admin}
}

// seedPhoto stores a file and its row.
func (f *fixture) seedPhoto(t *testing.T, key string) int {
	t.Helper()
	f.store.objects[key] = pngHeader
	p := &models.Photo{URL: key}
	if err := f.photos.Create(context.Background(), nil, p); err != nil {
		t.Fatalf("seed photo: %v", err)
	}
	return p.ID
}

// seedEvent inserts an event at the given date, bypassing the future-date rule.
func (f *fixture) seedEvent(t *testing.T, author models.Actor, at time.Time, capacity *int) int {
	t.Helper()
	e := &models.Event{Name: "LAN", ScheduledDate: at, AuthorID: author.ID, MaxCapacity: capacity}
	if err := f.events.Create(context.Background(), nil, e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e.ID
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func (f *fixture) seedGame(t *testing.T, name string, approved bool) int {
	t.Helper()
	g := &models.Game{Name: name, IsApproved: approved, Platforms: []string{}}
	if err := f.games.Create(context.Background(), nil, g); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return g.ID
}

func boolPtr(b bool) *bool { return &b }
