package window

import "github.com/castlet/castlet/pkg/domain"

// handshakeState tracks the token exchange that turns a freshly opened
// surface into an established session.
//
//	idle -> probing -> ready -> connected -> closed
//
// The four wire tokens are the machine's only external inputs, so the
// protocol is testable without a real surface.
type handshakeState int

const (
	hsIdle handshakeState = iota
	hsProbing
	hsReady
	hsConnected
	hsClosed
)

func (s handshakeState) String() string {
	switch s {
	case hsIdle:
		return "idle"
	case hsProbing:
		return "probing"
	case hsReady:
		return "ready"
	case hsConnected:
		return "connected"
	case hsClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type role int

const (
	roleController role = iota
	roleReceiver
)

// stepResult describes the actions a single input demands. At most one
// of emit/deliver/connected/shutdown is meaningful per step; inputs that
// do not fit the current state are ignored entirely.
type stepResult struct {
	emit      string // token to send back, "" for none
	deliver   bool   // payload is an application message for onMessage
	connected bool   // the session became established on this step
	shutdown  bool   // the peer announced shutdown
}

// handshake is the per-session protocol machine. Callers serialize
// access; the machine itself holds no lock.
type handshake struct {
	role  role
	state handshakeState
}

// newControllerHandshake starts in probing: the controller has opened
// the surface and waits for the candidate to identify itself.
func newControllerHandshake() *handshake {
	return &handshake{role: roleController, state: hsProbing}
}

// newReceiverHandshake starts in idle; start() emits the first token.
func newReceiverHandshake() *handshake {
	return &handshake{role: roleReceiver, state: hsIdle}
}

// start begins the receiver half of the exchange: announce ourselves to
// the opener and wait for confirmation.
func (h *handshake) start() stepResult {
	if h.role != roleReceiver || h.state != hsIdle {
		return stepResult{}
	}
	h.state = hsProbing
	return stepResult{emit: domain.TokenIsPresentation}
}

// announceReady performs the receiver's final protocol step. It is
// idempotent: only the first call after confirmation emits the token.
func (h *handshake) announceReady() stepResult {
	if h.role != roleReceiver || h.state != hsReady {
		return stepResult{}
	}
	h.state = hsConnected
	return stepResult{emit: domain.TokenPresentationReady}
}

// step consumes one raw payload from the peer and returns the demanded
// actions. Unknown inputs before establishment are dropped; after
// establishment they are application messages.
func (h *handshake) step(payload []byte) stepResult {
	if h.state == hsClosed {
		return stepResult{}
	}

	token := string(payload)
	switch h.role {
	case roleController:
		return h.controllerStep(token)
	default:
		return h.receiverStep(token)
	}
}

func (h *handshake) controllerStep(token string) stepResult {
	switch {
	case h.state == hsProbing && token == domain.TokenIsPresentation:
		h.state = hsReady
		return stepResult{emit: domain.TokenPresentation}

	case h.state == hsReady && token == domain.TokenPresentationReady:
		h.state = hsConnected
		return stepResult{connected: true}

	case h.state == hsConnected && token == domain.TokenReceiverShutdown:
		h.state = hsClosed
		return stepResult{shutdown: true}

	case h.state == hsConnected && !domain.IsReservedToken([]byte(token)):
		return stepResult{deliver: true}
	}
	return stepResult{}
}

func (h *handshake) receiverStep(token string) stepResult {
	switch {
	case h.state == hsProbing && token == domain.TokenPresentation:
		// The opener confirmed: this context is a real receiver.
		h.state = hsReady
		return stepResult{connected: true}

	case (h.state == hsReady || h.state == hsConnected) && !domain.IsReservedToken([]byte(token)):
		return stepResult{deliver: true}
	}
	return stepResult{}
}

// close forces the machine into its terminal state.
func (h *handshake) close() {
	h.state = hsClosed
}
