package constants

// Centralized constants for headers, env keys and defaults.
const (
	// Environment variable prefix for config overrides (COMBO_SERVER_ADDRESS, ...)
	EnvPrefix = "COMBO_"

	// Config file location override
	EnvConfigPath = "COMBO_CONFIG"

	// Healthcheck target override
	EnvHealthcheckURL = "COMBO_HEALTHCHECK_URL"

	// Run snapshots change on every action
	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	DefaultConfigPath    = "combo_config.yaml"
	DefaultServerAddress = ":8080"
	DefaultDatabasePath  = "combo.db"
	DefaultHealthURL     = "http://127.0.0.1:8080/api/version"
)

// Routes used by the backend router
const (
	RouteAPIPrefix       = "/api"
	RouteVersion         = "/version"
	RouteLeaderboard     = "/leaderboard"
	RouteCatalogSkills   = "/catalog/skills"
	RouteCatalogEnemies  = "/catalog/enemies"
	RouteCatalogPassives = "/catalog/passives"
	RouteRuns            = "/runs"
	RouteRunByID         = "/runs/:runID"
	RouteRunPlay         = "/runs/:runID/play"
	RouteRunRest         = "/runs/:runID/rest"
	RouteRunAdvance      = "/runs/:runID/advance"
	RouteRunRewardCard   = "/runs/:runID/rewards/card"
	RouteRunRewardPower  = "/runs/:runID/rewards/ability"
	RouteRunRewardSkip   = "/runs/:runID/rewards/skip"
	RouteRunShopCard     = "/runs/:runID/shop/card"
	RouteRunShopPassive  = "/runs/:runID/shop/passive"
	RouteRunShopRemove   = "/runs/:runID/shop/remove"
	RouteRunShopLeave    = "/runs/:runID/shop/leave"
	RouteRunRestart      = "/runs/:runID/restart"
	RouteRunStream       = "/runs/:runID/stream"

	ParamRunID = "runID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyReason  = "reason"
	JSONKeyRun     = "run"
	JSONKeyOutcome = "outcome"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrRunNotFound            = "Run not found"
	ErrActionRejected         = "Action rejected"
	ErrWrongState             = "Action not allowed in the current state"
	ErrFailedCreateRun        = "Failed to create run"
	ErrFailedFetchCatalog     = "Failed to fetch catalog"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedUpgrade          = "Failed to open stream"
	ErrInternal               = "Internal error"
)

// Logging field names
const (
	LogFieldRunID   = "run_id"
	LogFieldFloor   = "floor"
	LogFieldState   = "state"
	LogFieldCardID  = "card_id"
	LogFieldKey     = "key"
	LogFieldReason  = "reason"
	LogFieldGold    = "gold"
	LogFieldEnemy   = "enemy"
	LogFieldSource  = "source"
	LogFieldAddr    = "addr"
	LogFieldPath    = "path"
	LogFieldClients = "clients"
)
