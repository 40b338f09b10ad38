package network

import (
	"fmt"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// State-vector indices for Cascade.
const (
	caMRNAReq = iota
	caReqOut
	caMRNAAck
	caAckOut
)

// Housekeeping terms that pin ack_out near 1 when the cascade is idle.
const (
	caAckBasalProd = 2.5
	caAckBasalDeg  = 5.0
	caAckMRNAInhib = 3.0
)

// Cascade carries the handshake on transcription/translation pairs:
// req_in activates mrna_req production (Hill n=2), mrna_req translates to
// req_out, req_out activates mrna_ack, which translates to ack_out.
// req_out consumes ack_out directly, giving the mutual inhibition that
// makes the acknowledge line drop while a request is in flight.
type Cascade struct {
	ReqIn        float64
	KMRNAReqProd float64
	KMRNAReqDeg  float64
	KReqTransl   float64
	KReqDeg      float64
	KMRNAAckProd float64
	KMRNAAckDeg  float64
	KAckTransl   float64
	KAckDeg      float64
	KReqHalf     float64 // Hill half-activation of req_out on mrna_ack
}

func NewCascade() *Cascade {
	return &Cascade{
		KMRNAReqProd: 3.0,
		KMRNAReqDeg:  2.5,
		KReqTransl:   1.5,
		KReqDeg:      1.5,
		KMRNAAckProd: 3.0,
		KMRNAAckDeg:  2.5,
		KAckTransl:   1.5,
		KAckDeg:      25.0,
		KReqHalf:     0.5,
	}
}

func (n *Cascade) Species() []string {
	return []string{"mrna_req", "req_out", "mrna_ack", "ack_out"}
}

func (n *Cascade) InitialConc() kinet.Conc {
	return kinet.Conc{0, 0, 0, 1}
}

func hill2(x, half float64) float64 {
	x2 := x * x
	return x2 / (half*half + x2)
}

func (n *Cascade) Rates(c kinet.Conc, _ float64) kinet.Conc {
	mReq, req, mAck, ack := c[caMRNAReq], c[caReqOut], c[caMRNAAck], c[caAckOut]
	in := n.ReqIn

	dMReq := n.KMRNAReqProd*hill2(in, 0.5) - n.KMRNAReqDeg*mReq

	dReq := n.KReqTransl*mReq - n.KReqDeg*req

	dMAck := n.KMRNAAckProd*hill2(req, n.KReqHalf) - n.KMRNAAckDeg*mAck

	dAck := n.KAckTransl*mAck -
		n.KAckDeg*req*ack -
		caAckMRNAInhib*hill2(mAck, 1.0)*ack +
		caAckBasalProd -
		caAckBasalDeg*hill2(ack, 1.0)

	return kinet.Conc{dMReq, dReq, dMAck, dAck}
}

// Clamp keeps concentrations non-negative; the cascade has no hard upper
// bound, its basal terms regulate ack_out around 1 on their own.
func (n *Cascade) Clamp(c kinet.Conc) {
	for i, v := range c {
		if v < 0 {
			c[i] = 0
		}
	}
}

func (n *Cascade) Params() map[string]float64 {
	return map[string]float64{
		"req_in":          n.ReqIn,
		"k_mrna_req_prod": n.KMRNAReqProd,
		"k_mrna_req_deg":  n.KMRNAReqDeg,
		"k_req_transl":    n.KReqTransl,
		"k_req_deg":       n.KReqDeg,
		"k_mrna_ack_prod": n.KMRNAAckProd,
		"k_mrna_ack_deg":  n.KMRNAAckDeg,
		"k_ack_transl":    n.KAckTransl,
		"k_ack_deg":       n.KAckDeg,
		"k_req_half":      n.KReqHalf,
	}
}

func (n *Cascade) SetParam(name string, value float64) error {
	switch name {
	case "req_in":
		n.ReqIn = value
	case "k_mrna_req_prod":
		n.KMRNAReqProd = value
	case "k_mrna_req_deg":
		n.KMRNAReqDeg = value
	case "k_req_transl":
		n.KReqTransl = value
	case "k_req_deg":
		n.KReqDeg = value
	case "k_mrna_ack_prod":
		n.KMRNAAckProd = value
	case "k_mrna_ack_deg":
		n.KMRNAAckDeg = value
	case "k_ack_transl":
		n.KAckTransl = value
	case "k_ack_deg":
		n.KAckDeg = value
	case "k_req_half":
		n.KReqHalf = value
	default:
		return fmt.Errorf("cascade: %q: %w", name, kinet.ErrUnknownName)
	}
	return nil
}

// New builds a network by name. Names are the ones accepted in config
// files and on the command line.
func New(name string) (kinet.Network, error) {
	switch name {
	case "celement":
		return NewCElement(), nil
	case "cascade":
		return NewCascade(), nil
	default:
		return nil, fmt.Errorf("unknown network: %s", name)
	}
}
