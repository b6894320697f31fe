package bloom

/*

# Bloom primitives (4-way, in-place)

This package provides primitive building blocks for Bloom filters intended to
live inside a preallocated fixed-size region of memory or a persisted account.

It favours:

- small, composable functions
- explicit byte layouts
- index arithmetic on byte slices
- a burden of knowledge on the caller for hot paths

The `store` package uses one of these filters as a negative-presence
prefilter over approved `command_id` values: a relayer deciding whether a
message is worth re-approving can consult the filter before paying for a
full account lookup. The filter is never consulted for anything that gates
a state transition — only as an I/O shortcut.

## What Bloom filters are (and are not)

Bloom filters provide a *probabilistic prefilter*:

- If the filter says "definitely not present", then the element is not present.
- If the filter says "maybe present", then the element may or may not be present
  (false positives are possible).

Bloom filters are NOT cryptographic commitments and do not provide proofs of
exclusion. They are only an I/O optimization.

## 4 parallel filters

This package maintains exactly 4 parallel Bloom filters, each indexing
32-byte elements (command IDs, or any other 32-byte content address).

The 4 bitsets share identical sizing and are stored side-by-side:

	+----------------------+  32B header (magic, version, params)
	| BloomHeaderV1        |
	+----------------------+  bitset bytes (filter 0)
	| filter0 bitset       |
	+----------------------+  bitset bytes (filter 1)
	| filter1 bitset       |
	+----------------------+  bitset bytes (filter 2)
	| filter2 bitset       |
	+----------------------+  bitset bytes (filter 3)
	| filter3 bitset       |
	+----------------------+

## Indexing and bit numbering

We use deterministic double-hashing and an explicit bit numbering convention.
See `arc-bloom-format-and-support.md` for the full rationale.

## API versioning: why the `V1` suffix exists

Functions in this package are suffixed with a format version (for example
`InitV1`, `InsertV1`, `MaybeContainsV1`).

The suffix means: **this function implements Bloom format version 1** -- i.e.
it assumes a specific serialized header layout (magic/version/fields), bit
numbering convention, and hashing/index-derivation rules.

This is deliberate: it allows future incompatible changes (a new header layout,
a different hash scheme, a different bit order, etc.) to be introduced as `V2`
side-by-side, without silently breaking previously persisted data.

*/
