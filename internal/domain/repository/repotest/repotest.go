// Package repotest provides in-memory repository implementations for
// service tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

type Users struct {
	mu    sync.Mutex
	byID  map[int64]schema.User
	order []int64
}

var _ repository.UserRepository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{byID: make(map[int64]schema.User)}
}

func (r *Users) Upsert(ctx context.Context, u schema.User) (schema.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[u.ID]
	if ok {
		existing.DisplayName = u.DisplayName
		r.byID[u.ID] = existing
		return existing, nil
	}
	u.JoinedAt = time.Now()
	r.byID[u.ID] = u
	r.order = append(r.order, u.ID)
	return u, nil
}

func (r *Users) GetByID(ctx context.Context, id int64) (schema.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return schema.User{}, errorz.ErrNotFound
	}
	return u, nil
}

func (r *Users) AddPoints(ctx context.Context, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID[id]
	u.Points += delta
	r.byID[id] = u
	return nil
}

func (r *Users) IncQuestionsAsked(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID[id]
	u.QuestionsAsked++
	r.byID[id] = u
	return nil
}

func (r *Users) IncAnswersGiven(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID[id]
	u.AnswersGiven++
	r.byID[id] = u
	return nil
}

func (r *Users) ListByPoints(ctx context.Context) ([]schema.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]schema.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out, nil
}

func (r *Users) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

type Questions struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]schema.Question
}

var _ repository.QuestionRepository = (*Questions)(nil)

func NewQuestions() *Questions {
	return &Questions{byID: make(map[int64]schema.Question)}
}

func (r *Questions) Create(ctx context.Context, q schema.Question) (schema.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	q.ID = r.seq
	q.CreatedAt = time.Now()
	r.byID[q.ID] = q
	return q, nil
}

func (r *Questions) GetByID(ctx context.Context, id int64) (schema.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return schema.Question{}, errorz.ErrNotFound
	}
	return q, nil
}

func (r *Questions) Approve(ctx context.Context, id int64) (schema.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return schema.Question{}, errorz.ErrNotFound
	}
	if q.Approved {
		return schema.Question{}, errorz.ErrAlreadyApproved
	}
	q.Approved = true
	r.byID[id] = q
	return q, nil
}

func (r *Questions) SetChannelMsgID(ctx context.Context, id int64, msgID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.byID[id]
	q.ChannelMsgID = msgID
	r.byID[id] = q
	return nil
}

func (r *Questions) DeletePending(ctx context.Context, id int64) (schema.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok || q.Approved {
		return schema.Question{}, errorz.ErrNotFound
	}
	delete(r.byID, id)
	return q, nil
}

func (r *Questions) IncAnswerCount(ctx context.Context, id int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return 0, errorz.ErrNotFound
	}
	q.AnswerCount++
	r.byID[id] = q
	return q.AnswerCount, nil
}

func (r *Questions) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.byID {
		if q.Approved {
			n++
		}
	}
	return n, nil
}

type Answers struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]schema.Answer
}

var _ repository.AnswerRepository = (*Answers)(nil)

func NewAnswers() *Answers {
	return &Answers{byID: make(map[int64]schema.Answer)}
}

func (r *Answers) Create(ctx context.Context, a schema.Answer) (schema.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a.ID = r.seq
	a.CreatedAt = time.Now()
	r.byID[a.ID] = a
	return a, nil
}

func (r *Answers) GetByID(ctx context.Context, id int64) (schema.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return schema.Answer{}, errorz.ErrNotFound
	}
	return a, nil
}

func (r *Answers) ListByQuestion(ctx context.Context, questionID int64, page, pageSize int) (repository.ListAnswersResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []schema.Answer
	for _, a := range r.byID {
		if a.QuestionID == questionID {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Votes != all[j].Votes {
			return all[i].Votes > all[j].Votes
		}
		return all[i].ID < all[j].ID
	})
	total := len(all)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return repository.ListAnswersResult{Items: all[start:end], Total: total}, nil
}

func (r *Answers) AddVotes(ctx context.Context, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return errorz.ErrNotFound
	}
	a.Votes += delta
	r.byID[id] = a
	return nil
}

func (r *Answers) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

type pair struct {
	userID, otherID int64
}

type Votes struct {
	mu sync.Mutex
	m  map[pair]schema.Vote
}

var _ repository.VoteRepository = (*Votes)(nil)

func NewVotes() *Votes {
	return &Votes{m: make(map[pair]schema.Vote)}
}

func (r *Votes) Get(ctx context.Context, userID, answerID int64) (schema.Vote, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[pair{userID, answerID}]
	return v, ok, nil
}

func (r *Votes) Put(ctx context.Context, v schema.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[pair{v.UserID, v.AnswerID}] = v
	return nil
}

func (r *Votes) Delete(ctx context.Context, userID, answerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, pair{userID, answerID})
	return nil
}

func (r *Votes) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

type Subscriptions struct {
	mu    sync.Mutex
	m     map[pair]struct{}
	order []pair
}

var _ repository.SubscriptionRepository = (*Subscriptions)(nil)

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{m: make(map[pair]struct{})}
}

func (r *Subscriptions) Add(ctx context.Context, userID, questionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := pair{userID, questionID}
	if _, ok := r.m[p]; ok {
		return nil
	}
	r.m[p] = struct{}{}
	r.order = append(r.order, p)
	return nil
}

func (r *Subscriptions) Remove(ctx context.Context, userID, questionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := pair{userID, questionID}
	if _, ok := r.m[p]; !ok {
		return nil
	}
	delete(r.m, p)
	for i, q := range r.order {
		if q == p {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Subscriptions) Subscribers(ctx context.Context, questionID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for _, p := range r.order {
		if p.otherID == questionID {
			ids = append(ids, p.userID)
		}
	}
	return ids, nil
}

func (r *Subscriptions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

type Notifications struct {
	mu    sync.Mutex
	items []schema.Notification
}

var _ repository.NotificationRepository = (*Notifications)(nil)

func NewNotifications() *Notifications {
	return &Notifications{}
}

func (r *Notifications) Create(ctx context.Context, n schema.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *Notifications) ListUnread(ctx context.Context, userID int64) ([]schema.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []schema.Notification
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *Notifications) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Read = true
		}
	}
	return nil
}

func (r *Notifications) MarkAllRead(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].UserID == userID {
			r.items[i].Read = true
		}
	}
	return nil
}

// All returns a copy of every stored notification, read or not.
func (r *Notifications) All() []schema.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]schema.Notification, len(r.items))
	copy(out, r.items)
	return out
}
