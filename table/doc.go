/*
Package table contains an immutable, sorted table of arbitrary byte string
keys, designed to persist order-preserving encoded keys. Keys are stored in
unsigned lexicographic order, so a seek to an encoded key prefix positions
the cursor at the first matching tuple.

Data Structure Documentation

Table

A table contains a series of data blocks followed by an index and
a table footer.

    Table layout:
    +---------+---------+---------+-------------+--------------+
    | block 1 |   ...   | block n | block index | table footer |
    +---------+---------+---------+-------------+--------------+

    Block index:
    +------------------------+--------------------+--------------------+-----------------------------+-------+
    | key len block 1 (uvar) | last key (varlen)  | offset 1 (uvarint) | key len block 2 (uvar) ...  |  ...  |
    +------------------------+--------------------+--------------------+-----------------------------+-------+

    Offsets after the first one are delta encoded.

    Table footer:
    +------------------------+------------------+
    | index offset (8 bytes) |  magic (8 bytes) |
    +------------------------+------------------+

Block

A block comprises of a series of sections, followed by a section
index and a single-byte compression type indicator.

    Block layout:
    +-----------+---------+-----------+---------------+---------------------------+
    | section 1 |   ...   | section n | section index | compression type (1-byte) |
    +-----------+---------+-----------+---------------+---------------------------+

    Section index:
    +----------------------------+-------+----------------------------+-------------------------------+
    | section offset 2 (4 bytes) |  ...  | section offset n (4 bytes) |  number of sections (4 bytes) |
    +----------------------------+-------+----------------------------+-------------------------------+

Section

A section is a series of key/value pairs where the first key is stored in full
while subsequent keys only store the suffix that differs from the previous key.

    +----------------+------------------+------------------+--------------------+------------------+-------+
    | shared (uvar)  | unshared (uvar)  | value len (uvar) | key suffix (var)   | value (varlen)   |  ...  |
    +----------------+------------------+------------------+--------------------+------------------+-------+
*/
package table
