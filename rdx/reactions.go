package rdx

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reaction counters live in Redis hashes keyed react:<entity>:<id>, one
// field per emoji. They only ever increment.

func reactionKey(entityType, entityID string) string {
	return "react:" + entityType + ":" + entityID
}

// IncrReaction bumps one emoji counter and returns the whole updated map.
func IncrReaction(ctx context.Context, entityType, entityID, emoji string) (map[string]int, error) {
	key := reactionKey(entityType, entityID)
	if err := Conn.HIncrBy(ctx, key, emoji, 1).Err(); err != nil {
		return nil, err
	}
	return GetReactions(ctx, entityType, entityID)
}

func GetReactions(ctx context.Context, entityType, entityID string) (map[string]int, error) {
	raw, err := Conn.HGetAll(ctx, reactionKey(entityType, entityID)).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(raw))
	for emoji, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		counts[emoji] = n
	}
	return counts, nil
}

func DropReactions(ctx context.Context, entityType, entityID string) {
	if _, err := Conn.Del(ctx, reactionKey(entityType, entityID)).Result(); err != nil {
		log.Printf("Redis reaction cleanup failed for %s:%s: %v", entityType, entityID, err)
	}
}

// FlushReactions periodically mirrors the live Redis counters into the Mongo
// documents so restarts do not lose counts. Runs as a background goroutine.
func FlushReactions(memories, comments *mongo.Collection) {
	ticker := time.NewTicker(30 * time.Second)
	for range ticker.C {
		ctx := context.Background()
		keys, err := Conn.Keys(ctx, "react:*:*").Result()
		if err != nil {
			log.Println("Redis scan error:", err)
			continue
		}

		for _, key := range keys {
			parts := strings.SplitN(key, ":", 3)
			if len(parts) != 3 {
				continue
			}
			entityType, entityID := parts[1], parts[2]

			counts, err := GetReactions(ctx, entityType, entityID)
			if err != nil || len(counts) == 0 {
				continue
			}

			var target *mongo.Collection
			var keyField string
			switch entityType {
			case "memory":
				target, keyField = memories, "memoryid"
			case "comment":
				target, keyField = comments, "commentid"
			default:
				continue
			}

			filter := bson.M{keyField: entityID}
			update := bson.M{"$set": bson.M{"reactions": counts}}
			if _, err := target.UpdateOne(ctx, filter, update); err != nil {
				log.Printf("Reaction flush failed for %s: %v", key, err)
			}
		}
	}
}
