package redis

import (
	"fmt"

	"github.com/mcoot/crosswordrobot/internal/model"
)

const keyPrefix = "cwrobot"

func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey is the SET of known game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// dictionaryKey holds the word LIST in rank order
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}

func hintKey(key string) string {
	return fmt.Sprintf("%s:hint:%s", keyPrefix, key)
}
