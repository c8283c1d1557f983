// Package registers implements the pure decode/encode transformations
// between raw Modbus register arrays and the typed physical values they
// carry: signed and unsigned scaling, paired 32-bit composition, version
// byte-packing, ASCII vendor/product codes, and alias byte-packing.
//
// Every function here is stateless and allocation-light; callers supply
// register slices already fetched by the wire and busarbiter layers.
package registers
