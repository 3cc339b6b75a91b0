// Package lifecycle turns a single asynchronous API call into three
// observable intents: pending when the call starts, then exactly one of
// fulfilled or rejected when it settles.
//
// Calls are never de-duplicated or cancelled by this package. Two
// invocations of the same operation each run to completion and each emit
// their own terminal notification, so whichever settles last wins.
package lifecycle
