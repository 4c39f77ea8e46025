// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes and decodes OpenSoundControl packets.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Open Sound Control (OSC) is an open, transport-independent, message-based protocol developed for communication among computers,
//sound synthesizers, and other multimedia devices. This package only deals with bytes; see package oscnet for UDP.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32, float64 values are narrowed)
//	's' (string)
//	'b' ([]byte)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//	'm' (MIDI)
//
//- Supports OSC bundles, including TimeTags and the "immediate" TimeTag
//
//- Type inference from Go values, explicit {type, value} overrides, and a strict or lenient Policy for
//values that cannot be typed
//
//Packets
//
//The unit of transmission of OSC is an OSC Packet. Any application that sends OSC Packets is an OSC Client;
//any application that receives OSC Packets is an OSC Server.
//
//An OSC packet consists of its contents, a contiguous block of binary data.
//The size of an OSC packet is always 32-bit aligned.
//
//OSC packets come in two flavors:
//
//OSC Messages: An OSC message consists of an OSC address pattern and  zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//
//Usage
//
//Encoding:
//  msg := osc.NewMessage("/osc/address", int32(111), true, "hello")
//  data, err := osc.Encode(msg, osc.Options{Policy: osc.Strict})
//
//Decoding:
//  packet, err := osc.Decode(data, osc.Options{})
//  switch p := packet.(type) {
//  case *osc.Message:
//      fmt.Println(p.Address, p.Arguments)
//  case *osc.Bundle:
//      fmt.Println(p.Timetag, len(p.Elements))
//  }
//
//Decode errors wrap ErrMalformedPacket, ErrUnsupportedTypeTag or ErrTruncatedBuffer; encode errors wrap
//ErrUnknownArgumentType or ErrInvalidMIDI. Use errors.Is and errors.As to tell them apart.
package osc
