// Package network defines the fixed reaction networks that model a
// digital two-phase handshake as biochemistry.
//
// Two networks are provided, both driven by the req_in input signal:
//
//   - [CElement]: Muller C-element memory with request/acknowledge
//     propagation (c_state, req_out, ack_out, ack_in)
//   - [Cascade]: transcription/translation cascade carrying the request
//     and acknowledge signals on mRNA/protein pairs
//
// Logic levels are encoded as concentrations: high ≈ 1.0, low ≈ 0.0.
// Both networks implement [kinet.Network] and [kinet.Tunable].
package network
