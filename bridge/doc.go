// Package bridge is a HAL for ATECC608 devices which routes all bus traffic
// through a registered callback.
//
// The HAL implements the transport contract expected by cryptoauthlib (init,
// post init, send, receive, control and release) without touching a bus. Each
// send and receive is turned into a synchronous round trip: the request is
// placed in an Exchange record owned by the Bridge, the callback is invoked
// with the operation, a sequence number and a length, and the response is
// read back from the same record. The sequence number ties a response to its
// request so a late or misdirected responder is detected.
//
// This code is based on MicrochipTech's Cryptoauthlib code, thus its original
// copyright is retained for this code.
//
// Copyright (c) 2022 Northvolt AB and the atecc authors.
// Copyright (c) 2015-2022 Microchip Technology Inc. and its subsidiaries.
package bridge
