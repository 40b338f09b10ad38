package network

import (
	"fmt"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// State-vector indices for CElement.
const (
	ceCState = iota
	ceReqOut
	ceAckOut
	ceAckIn
)

// Dimensionless shape factors of the handshake rate laws. They encode the
// asymmetry between set and reset paths, not tunable kinetics.
const (
	ceResetBoost    = 2.0 // c_state reset accelerates when req_in falls
	ceReqResetBoost = 3.0 // req_out decay accelerates when req_in falls
	ceAckFeedbackC  = 8.0 // ack_in drives c_state reset (handshake done)
	ceAckFeedbackR  = 5.0 // ack_in drives req_out decay
	ceAckRearm      = 5.0 // a new req_in pulse clears the stored ack_in
	ceInvUp         = 2.5 // inverter recovery is faster than its drop
	ceInvDown       = 2.0
)

// CElement models the request phase of a two-phase handshake around a
// Muller C-element: c_state rises only while req_in AND ack_out are high,
// req_out follows c_state, ack_out is the NOT of req_out, and ack_in
// stores the receiver's acknowledgement between pulses.
type CElement struct {
	ReqIn   float64 // input signal, overridden by phases
	KCSet   float64
	KCReset float64
	KProp   float64
	KInv    float64
	KReqDeg float64
	KAck    float64
	KAckDeg float64
}

func NewCElement() *CElement {
	return &CElement{
		KCSet:   5.0,
		KCReset: 4.0,
		KProp:   1.5,
		KInv:    1.8,
		KReqDeg: 3.0,
		KAck:    0.5,
		KAckDeg: 0.05,
	}
}

func (n *CElement) Species() []string {
	return []string{"c_state", "req_out", "ack_out", "ack_in"}
}

func (n *CElement) InitialConc() kinet.Conc {
	// ack_out starts high: the line is ready before the first request.
	return kinet.Conc{0, 0, 1, 0}
}

func (n *CElement) Rates(c kinet.Conc, _ float64) kinet.Conc {
	cs, req, ack, ackIn := c[ceCState], c[ceReqOut], c[ceAckOut], c[ceAckIn]
	in := n.ReqIn

	resetC := 1.0 + (1.0-in)*ceResetBoost + ceAckFeedbackC*ackIn
	dCState := n.KCSet*in*ack*(1.0-cs) - n.KCReset*cs*resetC

	resetR := 1.0 + (1.0-in)*ceReqResetBoost + ceAckFeedbackR*ackIn
	dReqOut := n.KProp*cs - n.KReqDeg*req*resetR

	dAckOut := n.KInv*(1.0-ack)*(1.0-req)*ceInvUp - n.KInv*ack*req*ceInvDown

	rearm := 1.0 + in*ceAckRearm
	dAckIn := n.KAck*req*(1.0-ackIn) - n.KAckDeg*ackIn*rearm

	return kinet.Conc{dCState, dReqOut, dAckOut, dAckIn}
}

// Clamp keeps logic levels in [0, 1], matching the normalized encoding.
func (n *CElement) Clamp(c kinet.Conc) {
	for i, v := range c {
		if v < 0 {
			c[i] = 0
		} else if v > 1 {
			c[i] = 1
		}
	}
}

func (n *CElement) Params() map[string]float64 {
	return map[string]float64{
		"req_in":    n.ReqIn,
		"k_c_set":   n.KCSet,
		"k_c_reset": n.KCReset,
		"k_prop":    n.KProp,
		"k_inv":     n.KInv,
		"k_req_deg": n.KReqDeg,
		"k_ack":     n.KAck,
		"k_ack_deg": n.KAckDeg,
	}
}

func (n *CElement) SetParam(name string, value float64) error {
	switch name {
	case "req_in":
		n.ReqIn = value
	case "k_c_set":
		n.KCSet = value
	case "k_c_reset":
		n.KCReset = value
	case "k_prop":
		n.KProp = value
	case "k_inv":
		n.KInv = value
	case "k_req_deg":
		n.KReqDeg = value
	case "k_ack":
		n.KAck = value
	case "k_ack_deg":
		n.KAckDeg = value
	default:
		return fmt.Errorf("celement: %q: %w", name, kinet.ErrUnknownName)
	}
	return nil
}
