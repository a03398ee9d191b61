// Package lut decodes the timeless jewel lookup tables shipped with Path of
// Building (TimelessJewelData) into sparse seed -> node index -> token maps.
package lut
