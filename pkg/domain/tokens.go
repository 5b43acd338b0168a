package domain

// Wire tokens for the window transport handshake. These exact literals
// travel over the same channel as application payloads, so payloads must
// never collide with them once a session is established (caller's
// responsibility, per the session contract).
const (
	// TokenIsPresentation is sent by a freshly loaded receiver candidate
	// to its opener, asking whether it was opened for presentation.
	TokenIsPresentation = "ispresentation"

	// TokenPresentation is the controller's affirmative reply to
	// TokenIsPresentation.
	TokenPresentation = "presentation"

	// TokenPresentationReady is sent by a confirmed receiver once it is
	// ready to exchange application messages.
	TokenPresentationReady = "presentationready"

	// TokenReceiverShutdown is sent by the receiver on unload; the
	// controller transitions the matching session to disconnected.
	TokenReceiverShutdown = "receivershutdown"
)

// PresentationIntent tags the open request for a secondary display
// surface so the receiving context can recognize why it was opened.
const PresentationIntent = "presentation"

// IsReservedToken reports whether payload is one of the four handshake
// tokens and therefore must not be delivered as an application message.
func IsReservedToken(payload []byte) bool {
	switch string(payload) {
	case TokenIsPresentation, TokenPresentation, TokenPresentationReady, TokenReceiverShutdown:
		return true
	}
	return false
}
