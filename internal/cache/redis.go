package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"muru-backend/internal/config"
	"muru-backend/internal/model"
)

const (
	publicBoardsKey    = "boards:public"
	publicBoardsGenKey = "boards:public:gen"
)

// BoardCache 공개 보드 목록 캐시
//
// 무효화할 때마다 세대(generation)가 증가한다. 미스 시 받은 세대를 SetPublicBoards에
// 넘기면, 그 사이 무효화가 있었을 경우 저장하지 않는다.
type BoardCache interface {
	// GetPublicBoards 캐시 미스이면 ok=false, gen은 DB 조회 전의 세대
	GetPublicBoards(ctx context.Context) (boards []model.Board, gen int64, ok bool, err error)
	// SetPublicBoards 현재 세대가 gen과 같을 때만 저장
	SetPublicBoards(ctx context.Context, gen int64, boards []model.Board) error
	InvalidatePublicBoards(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}

// RedisClient Redis 기반 BoardCache
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient Redis 연결 후 Ping으로 확인
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	ttl := cfg.PublicBoardTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisClient{client: client, ttl: ttl}, nil
}

// GetPublicBoards 캐시된 공개 보드 목록 조회
func (r *RedisClient) GetPublicBoards(ctx context.Context) ([]model.Board, int64, bool, error) {
	// 세대를 먼저 읽어야 이후 무효화를 놓치지 않음
	gen, err := r.generation(ctx, r.client)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := r.client.Get(ctx, publicBoardsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var boards []model.Board
	if err := json.Unmarshal(data, &boards); err != nil {
		// 깨진 값은 지우고 미스로 처리
		r.client.Del(ctx, publicBoardsKey)
		return nil, gen, false, err
	}
	return boards, gen, true, nil
}

// SetPublicBoards 세대가 그대로일 때만 저장 (TTL 적용). 세대가 바뀌었으면 조용히 건너뜀
func (r *RedisClient) SetPublicBoards(ctx context.Context, gen int64, boards []model.Board) error {
	data, err := json.Marshal(boards)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := r.generation(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, publicBoardsKey, data, r.ttl)
			return nil
		})
		return err
	}, publicBoardsGenKey)
	if errors.Is(err, redis.TxFailedErr) {
		// WATCH 중 무효화됨
		return nil
	}
	return err
}

// InvalidatePublicBoards 세대 증가 + 목록 삭제. 보드 변경과 작성자 이름 변경 시 호출
func (r *RedisClient) InvalidatePublicBoards(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, publicBoardsGenKey)
		pipe.Del(ctx, publicBoardsKey)
		return nil
	})
	return err
}

// getter *redis.Client와 WATCH 중인 *redis.Tx 공통
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisClient) generation(ctx context.Context, c getter) (int64, error) {
	gen, err := c.Get(ctx, publicBoardsGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Health checks if Redis is healthy
func (r *RedisClient) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Nop 캐시 비활성화 시 사용
type Nop struct{}

func (Nop) GetPublicBoards(context.Context) ([]model.Board, int64, bool, error) {
	return nil, 0, false, nil
}
func (Nop) SetPublicBoards(context.Context, int64, []model.Board) error { return nil }
func (Nop) InvalidatePublicBoards(context.Context) error                { return nil }
func (Nop) Health(context.Context) error                                { return nil }
func (Nop) Close() error                                                { return nil }
