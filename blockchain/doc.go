/*
Package blockchain tracks headers of a block chain and checks the difficulty
they claim.

StoredHeader pairs a block header with its height and the total work of the
chain ending with it, and has a fixed 96 byte serialization shared by header
stores and checkpoint files. CheckDifficultyTransition validates the
difficulty bits of a new header against its parent, retargeting every
BlocksPerRetarget blocks and applying the minimum difficulty rule of test
networks. Ancestors are looked up through a HeaderStore.
*/
package blockchain
