package domain

import "errors"

// Store-level sentinels. Adapters translate driver errors into these so
// services never depend on a concrete storage backend.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrStoreUnavailable = errors.New("store unavailable")
)

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrCampaignInactive   = errors.New("campaign is not active")
	ErrCampaignCodeInUse  = errors.New("campaign code already in use by an active campaign")
	ErrDuplicateVote      = errors.New("voter has already voted on this campaign")
	ErrOptionNotFound     = errors.New("invalid option for this campaign")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
