package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RoomLockKeyPrefix = "lock:room:member" // 房间成员变更的互斥锁
	RoomLockTTL       = 2 * time.Second
	roomLockRetry     = 20 * time.Millisecond
)

var ErrRoomBusy = errors.New("room busy, try again")

// RoomLock 房间级分布式锁：成员容量判定是读后写，全部串行化到这把锁后面
type RoomLock struct {
	RDB *redis.Client
}

func (l *RoomLock) key(roomID uint64) string {
	return fmt.Sprintf("%s:%d", RoomLockKeyPrefix, roomID)
}

func (l *RoomLock) Acquire(ctx context.Context, roomID uint64, token string) (bool, error) {
	return l.RDB.SetNX(ctx, l.key(roomID), token, RoomLockTTL).Result()
}

// AcquireWait 带退避的有限重试，拿不到就放弃返回 ErrRoomBusy
func (l *RoomLock) AcquireWait(ctx context.Context, roomID uint64, token string, attempts int) error {
	for i := 0; i < attempts; i++ {
		got, err := l.Acquire(ctx, roomID, token)
		if err != nil {
			return err
		}
		if got {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(roomLockRetry):
		}
	}
	return ErrRoomBusy
}

// Release 用 lua 保证只释放自己持有的锁
func (l *RoomLock) Release(ctx context.Context, roomID uint64, token string) error {
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{l.key(roomID)}, token).Result()
	return err
}
