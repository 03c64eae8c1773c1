// Package mocks holds function-field fakes for the card builder's
// capabilities: the structured AI client, the SVG sanitizer, the image
// generator and the media uploader. Each mock records its calls and returns
// a canned value unless the matching Fn field is set.
//
//	ai := mocks.NewMockAIClientWithData(
//	    `{"leadInText":"Your heaviest bags:","revealText":"ETH is king"}`, "")
//	builder, err := generation.NewBuilder(generation.Capabilities{
//	    AI:        ai,
//	    Sanitizer: &mocks.MockSanitizer{},
//	}, logger)
package mocks
