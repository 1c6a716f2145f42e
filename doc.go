/*
Package aloha is a voice ordering service for restaurant phone lines.

An upstream speech pipeline transcribes the caller and classifies each turn
into an intent; this module owns everything after that point: the
conversation state machine (greeting, menu, order collection, confirmation,
customer info, completion), the per-call order state, and the submission of
orders and call records to the restaurant ordering API.

The Service type answers calls and tracks the live ones. Each call runs a
flow.Controller that dispatches intents against the active conversation
stage and returns the utterances to speak back.

	svc, err := aloha.New(nil, orderapi.New("http://localhost:7860"))
	if err != nil {
		log.Fatal(err)
	}
	_, reply, err := svc.Answer(ctx, sessionID, from, to)
	// reply.EntryUtterances holds the greeting.

See cmd/voiceorder for the HTTP server binary.
*/
package aloha
