/*
Package domain contains the core models of the voice ordering conversation.

It defines the entities the flow controller operates on: conversation Nodes
and their classifier-facing FunctionSpecs, classified Intents, the per-call
OrderState with its one-shot submission invariants, and the wire shapes of the
ordering backend (VoiceOrder, OrderResult, Menu). This package is kept pure
and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Node: one stage of the conversation, declaring which intents are legal.
  - Intent: a classified caller turn (name + argument map).
  - OrderState: the accumulating, per-call record of items, customer, and
    submission outcome. Created at call start, discarded at call end.
  - OrderResult: the backend's verdict, produced at most once per call.
*/
package domain
