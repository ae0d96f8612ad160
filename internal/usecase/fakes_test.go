package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"skilltrade/internal/repository"

	"github.com/google/uuid"
)

type fakeSkillRepo struct {
	mu     sync.Mutex
	skills []repository.Skill
}

func (f *fakeSkillRepo) addSkill(name string) repository.Skill {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := repository.Skill{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	f.skills = append(f.skills, s)
	return s
}

func (f *fakeSkillRepo) GetAllSkills(_ context.Context) ([]repository.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.Skill{}, f.skills...), nil
}

func (f *fakeSkillRepo) FindByName(_ context.Context, name string) (repository.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.skills {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return repository.Skill{}, repository.ErrSkillNotFound
}

func (f *fakeSkillRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]repository.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Skill, 0, len(ids))
	for _, s := range f.skills {
		for _, id := range ids {
			if s.ID == id {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSkillRepo) CountExisting(_ context.Context, ids []uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range ids {
		for _, s := range f.skills {
			if s.ID == id {
				n++
				break
			}
		}
	}
	return n, nil
}

func (f *fakeSkillRepo) CreateSkill(_ context.Context, name string) (repository.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := repository.Skill{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	f.skills = append(f.skills, s)
	return s, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]repository.Profile
	order    []uuid.UUID
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]repository.Profile{}}
}

func (f *fakeProfileRepo) put(p repository.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[p.UserID]; !ok {
		f.order = append(f.order, p.UserID)
	}
	f.profiles[p.UserID] = p
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (repository.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return repository.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ExistsByUserID(_ context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.profiles[userID]
	return ok, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p repository.Profile) (repository.Profile, error) {
	f.put(p)
	return p, nil
}

func (f *fakeProfileRepo) ListAll(_ context.Context) ([]repository.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Profile, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.profiles[id])
	}
	return out, nil
}

type fakeMatchRecord struct {
	ID        uuid.UUID
	MatchedOn time.Time
	SkillIDs  []uuid.UUID
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]map[uuid.UUID]fakeMatchRecord
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{records: map[uuid.UUID]map[uuid.UUID]fakeMatchRecord{}}
}

func (f *fakeMatchRepo) get(userID, matchedUserID uuid.UUID) (fakeMatchRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID][matchedUserID]
	return rec, ok
}

func (f *fakeMatchRepo) countFor(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[userID])
}

func (f *fakeMatchRepo) Save(_ context.Context, userID, matchedUserID uuid.UUID, skillIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records[userID] == nil {
		f.records[userID] = map[uuid.UUID]fakeMatchRecord{}
	}
	rec, ok := f.records[userID][matchedUserID]
	if !ok {
		rec = fakeMatchRecord{ID: uuid.New(), MatchedOn: time.Now()}
	}
	rec.SkillIDs = append([]uuid.UUID{}, skillIDs...)
	f.records[userID][matchedUserID] = rec
	return nil
}

func (f *fakeMatchRepo) DeleteExcept(_ context.Context, userID uuid.UUID, keep []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	keepSet := map[uuid.UUID]struct{}{}
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	for matched := range f.records[userID] {
		if _, ok := keepSet[matched]; !ok {
			delete(f.records[userID], matched)
		}
	}
	for owner, byMatched := range f.records {
		if owner == userID {
			continue
		}
		if _, ok := byMatched[userID]; !ok {
			continue
		}
		if _, ok := keepSet[owner]; !ok {
			delete(byMatched, userID)
		}
	}
	return nil
}

func (f *fakeMatchRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]repository.MatchRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.MatchRow, 0, len(f.records[userID]))
	for matched, rec := range f.records[userID] {
		row := repository.MatchRow{
			ID:            rec.ID,
			UserID:        userID,
			MatchedUserID: matched,
			MatchedOn:     rec.MatchedOn,
		}
		for _, id := range rec.SkillIDs {
			row.MatchedSkills = append(row.MatchedSkills, repository.MatchSkill{ID: id})
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MatchedOn.Equal(out[j].MatchedOn) {
			return out[i].MatchedOn.After(out[j].MatchedOn)
		}
		return out[i].MatchedUserID.String() < out[j].MatchedUserID.String()
	})
	return out, nil
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[[2]uuid.UUID]repository.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[[2]uuid.UUID]repository.Rating{}}
}

func (f *fakeRatingRepo) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ratings)
}

func (f *fakeRatingRepo) Upsert(_ context.Context, rt repository.Rating) (repository.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt.CreatedAt = time.Now()
	f.ratings[[2]uuid.UUID{rt.FromUser, rt.ToUser}] = rt
	return rt, nil
}

func (f *fakeRatingRepo) GetAggregate(_ context.Context, userID uuid.UUID) (repository.RatingAggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, n := 0, 0
	for key, rt := range f.ratings {
		if key[1] == userID {
			sum += rt.Stars
			n++
		}
	}
	if n == 0 {
		return repository.RatingAggregate{}, nil
	}
	return repository.RatingAggregate{Average: float64(sum) / float64(n), Count: n}, nil
}

func (f *fakeRatingRepo) GetBetween(_ context.Context, fromUser, toUser uuid.UUID) (repository.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.ratings[[2]uuid.UUID{fromUser, toUser}]
	if !ok {
		return repository.Rating{}, repository.ErrRatingNotFound
	}
	return rt, nil
}

func (f *fakeRatingRepo) ListReceived(_ context.Context, userID uuid.UUID) ([]repository.ReceivedRating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.ReceivedRating, 0)
	for key, rt := range f.ratings {
		if key[1] != userID {
			continue
		}
		out = append(out, repository.ReceivedRating{
			FromUser:  rt.FromUser,
			Stars:     rt.Stars,
			Feedback:  rt.Feedback,
			CreatedAt: rt.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FromUser.String() < out[j].FromUser.String()
	})
	return out, nil
}

type fakeChatRepo struct {
	mu    sync.Mutex
	chats []repository.Chat
}

func (f *fakeChatRepo) FindOrCreate(_ context.Context, user1ID, user2ID uuid.UUID) (repository.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.User1ID == user1ID && c.User2ID == user2ID {
			return c, nil
		}
	}
	c := repository.Chat{ID: uuid.New(), User1ID: user1ID, User2ID: user2ID, CreatedAt: time.Now()}
	f.chats = append(f.chats, c)
	return c, nil
}

func (f *fakeChatRepo) GetByID(_ context.Context, chatID uuid.UUID) (repository.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.ID == chatID {
			return c, nil
		}
	}
	return repository.Chat{}, repository.ErrChatNotFound
}

func (f *fakeChatRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]repository.ChatSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.ChatSummary, 0)
	for _, c := range f.chats {
		if c.User1ID != userID && c.User2ID != userID {
			continue
		}
		out = append(out, repository.ChatSummary{
			ChatID:    c.ID,
			User1ID:   c.User1ID,
			User2ID:   c.User2ID,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []repository.Message
}

func (f *fakeMessageRepo) Create(_ context.Context, m repository.Message) (repository.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	m.SentAt = time.Now()
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeMessageRepo) ListByChatID(_ context.Context, chatID uuid.UUID) ([]repository.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Message, 0)
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) InvalidateUser(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, "rating:"+userID)
	for k := range c.store {
		if strings.HasPrefix(k, "matches:") {
			delete(c.store, k)
		}
	}
	return nil
}

type fakeRecalc struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (f *fakeRecalc) Enqueue(userID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, userID)
}

func (f *fakeRecalc) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enqueued)
}

type fakeNotifier struct {
	mu     sync.Mutex
	chats  []uuid.UUID
	events []MessageItem
}

func (f *fakeNotifier) MessageCreated(chatID uuid.UUID, m MessageItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, chatID)
	f.events = append(f.events, m)
}
