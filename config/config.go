package config

import "time"

// Grid Rendering Dimensions
const (
	CELL_SIZE        = 20 // Size of one grid cell in pixels, shared by the registry and the render pass
	DEFAULT_GRID_W   = 30 // Grid width assumed before the first welcome
	DEFAULT_GRID_H   = 20 // Grid height assumed before the first welcome
	MIN_VIEWPORT_H   = 200
	TRAIL_INSET      = 4
	TRAIL_MIN_SIZE   = 4
	MARKER_MIN_RAD   = 6
	MARKER_OUTLINE_W = 2
	NAME_FONT_SIZE   = 12
	WAIT_FONT_SIZE   = 18
)

// Smoothing factors for the per-frame exponential lag.
const (
	CameraSmoothing = 0.12 // Camera focus toward the local player's logical cell
	PlayerSmoothing = 0.22 // Avatar render position toward its logical pixel center
)

// Round defaults used until the server reports its own values.
const (
	DefaultRound         = 1
	DefaultRoundDuration = 120
	DefaultTimeLeft      = 120
)

// Alert lifetime on screen, matching the floating notice of the web client.
const AlertLifetime = 3200 * time.Millisecond

// Predefined Colors
var (
	PlayerDefaultColor = "#888"      // Neutral gray for records without a color
	WaitingBackground  = "#0b0b0b"   // Placeholder background before the local player exists
	WaitingText        = "#999"      // Placeholder text
	TileBackground     = "#131313"   // Unclaimed or unknown-owner tile
	TileBorder         = "#222"      // 1px grid line on unclaimed tiles
	MarkerOutline      = "#ffffffcc" // Player marker outline
	NameText           = "#fff"      // Player name label
	HUDText            = "#e6e6e6"
	HUDBackground      = "#181818"
	TimerBarColor      = "#3cb44b"
	HighlightColor     = "#ffe119"
)

// WaitingMessage is drawn while no local player record is known.
const WaitingMessage = "Waiting for server / player data..."

// DisconnectedMessage is raised as an alert when the transport drops.
const DisconnectedMessage = "Disconnected, reconnecting..."
