package redis

import (
	"fmt"

	"github.com/mcoot/connectfour/internal/model"
)

// Key prefix for all connect-four data
const keyPrefix = "c4"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesByCreationKey returns the sorted set of game IDs scored by creation time
func gamesByCreationKey() string {
	return fmt.Sprintf("%s:idx:games_by_created", keyPrefix)
}
