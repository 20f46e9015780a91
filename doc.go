/*
Package ordkey implements order-preserving binary encoding of typed values
and composite keys: for two tuples of the same schema, bytes.Compare of
their encodings yields the same order as comparing the tuples column by
column. This allows a plain, byte-ordered key-value store to act as an
index over typed columns.

Data Structure Documentation

Integers

Signed integers of W bits are stored in W/8 bytes, big-endian, with the
sign bit of the two's complement representation flipped.

    int32(-1) => 7f ff ff ff
    int32(0)  => 80 00 00 00
    int32(1)  => 80 00 00 01

Floats

IEEE-754 floats of W bits are stored in W/8 bytes, big-endian. The bit
pattern r is interpreted as a signed integer; negative patterns are
replaced by MIN-r, then the sign bit is flipped. Positive and negative
zero share one encoding and decode to positive zero.

    float64(-1) => 40 10 00 00 00 00 00 00
    float64(0)  => 80 00 00 00 00 00 00 00
    float64(1)  => bf f0 00 00 00 00 00 00

Bytes and Strings

Variable-width payloads are stored verbatim, followed by a single zero
terminator. Payloads must not contain zero bytes unless they are stored
in the final column of an ascending key.

    +--------------------+------+
    | payload (variable) | 0x00 |
    +--------------------+------+

Composite Keys

A key is the concatenation of its columns in schema order. All bytes of a
descending column, terminator and null marker included, are complemented.
Nullable columns are prefixed with a marker byte: 0x00 for NULL (no
payload follows), 0x01 for a present value.

    +----------+----------+-------+----------+
    | column 1 | column 2 |  ...  | column n |
    +----------+----------+-------+----------+

    Nullable column:
    +---------------------+--------------------+
    | marker (0x00, 0x01) | payload (if 0x01)  |
    +---------------------+--------------------+
*/
package ordkey
