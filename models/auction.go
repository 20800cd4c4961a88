package models

// AuctionPhase представляет фазы машины состояний аукциона.
type AuctionPhase string

const (
	// PhaseIdle: no player loaded, or the player list is exhausted.
	PhaseIdle AuctionPhase = "IDLE"
	// PhaseOnBlock: countdown running, bids accepted.
	PhaseOnBlock AuctionPhase = "ON_BLOCK"
	// PhaseResolved: terminal per-player state (SOLD or UNSOLD), waiting
	// for the operator to advance.
	PhaseResolved AuctionPhase = "RESOLVED"
)
