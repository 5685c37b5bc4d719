package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mamunbiswass/school-management/internal/admission"
	"github.com/mamunbiswass/school-management/pkg/redis"
)

// ErrDraftNotFound 草稿不存在或已过期
var ErrDraftNotFound = errors.New("draft not found")

const draftKeyPrefix = "admission:draft:"

// DraftRepository 入学向导草稿存储
type DraftRepository interface {
	Save(ctx context.Context, draft *admission.Draft) error
	Get(ctx context.Context, id string) (*admission.Draft, error)
	Delete(ctx context.Context, id string) error
	TTL() time.Duration
}

// ── Redis 实现 ──

type redisDraftRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDraftRepo 基于 Redis 的草稿存储，每次保存刷新 TTL
func NewRedisDraftRepo(rdb *redis.Client, ttl time.Duration) DraftRepository {
	return &redisDraftRepo{rdb: rdb, ttl: ttl}
}

func (r *redisDraftRepo) Save(ctx context.Context, draft *admission.Draft) error {
	return r.rdb.SetJSON(ctx, draftKeyPrefix+draft.ID, draft, r.ttl)
}

func (r *redisDraftRepo) Get(ctx context.Context, id string) (*admission.Draft, error) {
	var draft admission.Draft
	found, err := r.rdb.GetJSON(ctx, draftKeyPrefix+id, &draft)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrDraftNotFound
	}
	return &draft, nil
}

func (r *redisDraftRepo) Delete(ctx context.Context, id string) error {
	return r.rdb.Delete(ctx, draftKeyPrefix+id)
}

func (r *redisDraftRepo) TTL() time.Duration { return r.ttl }

// ── 进程内实现（Redis 不可用时降级） ──

type memoryDraftRepo struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[string]memoryDraft
}

type memoryDraft struct {
	draft     admission.Draft
	expiresAt time.Time
}

// NewMemoryDraftRepo 进程内草稿存储，过期条目在访问时清理
func NewMemoryDraftRepo(ttl time.Duration) DraftRepository {
	return &memoryDraftRepo{
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[string]memoryDraft),
	}
}

func (r *memoryDraftRepo) Save(_ context.Context, draft *admission.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()
	r.drafts[draft.ID] = memoryDraft{draft: copyDraft(draft), expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memoryDraftRepo) Get(_ context.Context, id string) (*admission.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()
	d, ok := r.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	out := copyDraft(&d.draft)
	return &out, nil
}

func (r *memoryDraftRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

func (r *memoryDraftRepo) TTL() time.Duration { return r.ttl }

func (r *memoryDraftRepo) evictLocked() {
	now := r.now()
	for id, d := range r.drafts {
		if now.After(d.expiresAt) {
			delete(r.drafts, id)
		}
	}
}

// copyDraft 深拷贝，避免调用方修改已保存的状态
func copyDraft(d *admission.Draft) admission.Draft {
	out := *d
	out.State.Form = make(map[string]string, len(d.State.Form))
	for k, v := range d.State.Form {
		out.State.Form[k] = v
	}
	out.State.Sections = append([]string{}, d.State.Sections...)
	if d.State.Notice != nil {
		n := *d.State.Notice
		out.State.Notice = &n
	}
	return out
}
