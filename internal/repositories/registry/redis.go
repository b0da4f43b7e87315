package registry

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-combat/internal/redis"
)

const (
	entryKeyPrefix = "npc:"
	indexKey       = "npc:ids"
)

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis-backed registry repository.
// Entries are stored as JSON under npc:{id}; the set npc:ids indexes them.
func NewRedisRepository(client redisclient.Client) Repository {
	return &redisRepository{
		client: client,
	}
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	result, err := r.client.Get(ctx, entryKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("registry entry %s not found", input.ID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get registry entry")
	}

	var entry combat.RegistryEntry
	if err := json.Unmarshal([]byte(result), &entry); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal registry entry %s", input.ID)
	}

	return &GetOutput{Entry: &entry}, nil
}

func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		input = &ListInput{}
	}

	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list registry ids")
	}
	if len(ids) == 0 {
		return &ListOutput{Entries: []*combat.RegistryEntry{}}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to load registry entries")
	}

	entries := make([]*combat.RegistryEntry, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index points at a missing entry; skip it
			continue
		}
		var entry combat.RegistryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal registry entry %s", ids[i])
		}
		if input.AliveOnly && entry.IsDead() {
			continue
		}
		entries = append(entries, &entry)
	}

	return &ListOutput{Entries: entries}, nil
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	entry := clamped(input.Entry)
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal registry entry")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, entryKeyPrefix+entry.ID, data, 0)
	pipe.SAdd(ctx, indexKey, entry.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to save registry entry")
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	deleted, err := r.client.Del(ctx, entryKeyPrefix+input.ID).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete registry entry")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("registry entry %s not found", input.ID)
	}

	if err := r.client.SRem(ctx, indexKey, input.ID).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to unindex registry entry")
	}

	return &DeleteOutput{}, nil
}
