// Package dispatch routes composite commands to primitive operations.
//
// A Composite groups registry operations under one command name and a
// discriminator. The Dispatcher picks the variant, checks that the bag
// carries what that variant needs and hands exactly that subset to the
// Executor, which gates the call on the session context, converts units
// and captures any failure. One Invoke makes at most one handler call.
package dispatch
