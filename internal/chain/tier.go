package chain

// Tier identifica un gradino della scala di fallback
type Tier int

const (
	// Provider remoto con i parametri configurati
	TierRemotePrimary Tier = iota
	// Stesso provider remoto con parametri rilassati
	TierRemoteRelaxed
	// Modello locale offline
	TierLocal
	// Risposta canned deterministica, non può fallire
	TierStatic
)

// String restituisce il nome leggibile del tier
func (t Tier) String() string {
	switch t {
	case TierRemotePrimary:
		return "remote_primary"
	case TierRemoteRelaxed:
		return "remote_relaxed"
	case TierLocal:
		return "local"
	case TierStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Remote verifica se il tier usa un provider remoto
func (t Tier) Remote() bool {
	return t == TierRemotePrimary || t == TierRemoteRelaxed
}

// Confidence restituisce la confidenza associata a una risposta del tier.
// I tier remoti valgono 0.85, i fallback locali 0.75.
func (t Tier) Confidence() float64 {
	if t.Remote() {
		return 0.85
	}
	return 0.75
}

// ladder è l'ordine fisso di attraversamento dei tier
var ladder = []Tier{TierRemotePrimary, TierRemoteRelaxed, TierLocal, TierStatic}
