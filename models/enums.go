package models

import "strings"

// PublishStatus is the visibility tier of a deck.
type PublishStatus string

const (
	StatusPrivate   PublishStatus = "private"
	StatusFollowers PublishStatus = "followers-only"
	StatusPublic    PublishStatus = "public"
)

// ParsePublishStatus accepts the three tiers case-insensitively.
func ParsePublishStatus(s string) (PublishStatus, bool) {
	switch PublishStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPrivate:
		return StatusPrivate, true
	case StatusFollowers:
		return StatusFollowers, true
	case StatusPublic:
		return StatusPublic, true
	}
	return "", false
}

// Difficulty is the self-assessed difficulty of a card.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}
