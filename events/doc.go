// Package events carries the loader's observable event stream.
//
// Events are a tagged value type: one Type enum plus the fields that type
// populates. The Bus delivers synchronously in emission order to every
// subscribed observer, so consumers see phaseStarted before the module
// events of that phase. A channel adapter is provided for consumers that
// prefer select loops over callbacks; it drops on overflow rather than
// stalling the loader.
package events
