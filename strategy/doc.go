// Package strategy maps observed network conditions to loading presets.
//
// Selection is a pure function evaluated once at loader construction; the
// strategy is not re-evaluated mid-load. Absent network information falls
// back to the moderate preset.
package strategy
