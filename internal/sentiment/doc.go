// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package sentiment classifies review text through a remote model service.
//
// The service answers POST /classify with either a label or class
// probabilities ordered [negative, neutral, positive]. When only scores are
// present the highest one wins; ties resolve to the earlier class.
//
// The classifier runs once per review at write time. The recommendation
// core only ever reads the stored label.
package sentiment
