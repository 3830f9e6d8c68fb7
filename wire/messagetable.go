package wire

import (
	"reflect"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// MessageTableEntry binds a command to the constructor of the message type
// that decodes it.
type MessageTableEntry struct {
	Command string
	New     func() Message
}

// MessageTable is an ordered set of commands and their message types. Each
// command maps to exactly one type and each type to exactly one command. A
// MessageTable is immutable and safe for concurrent use.
type MessageTable struct {
	entries   []MessageTableEntry
	byCommand map[string]int
	byType    map[reflect.Type]string
}

// NewMessageTable returns a table holding the given entries. It fails if a
// command or a message type appears twice, or if a constructor builds a
// message answering to another command.
func NewMessageTable(entries ...MessageTableEntry) (*MessageTable, error) {
	table := &MessageTable{
		byCommand: make(map[string]int, len(entries)),
		byType:    make(map[reflect.Type]string, len(entries)),
	}
	err := table.add(entries)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (t *MessageTable) add(entries []MessageTableEntry) error {
	for _, entry := range entries {
		if entry.Command == "" || len(entry.Command) > CommandSize {
			return errors.Errorf("invalid command %q", entry.Command)
		}
		if _, ok := t.byCommand[entry.Command]; ok {
			return errors.Errorf("command %q is registered twice", entry.Command)
		}

		msg := entry.New()
		if msg.Command() != entry.Command {
			return errors.Errorf("constructor of command %q builds a %T, which "+
				"answers to %q", entry.Command, msg, msg.Command())
		}
		msgType := reflect.TypeOf(msg)
		if other, ok := t.byType[msgType]; ok {
			return errors.Errorf("%s is registered for both %q and %q",
				msgType, other, entry.Command)
		}

		t.byCommand[entry.Command] = len(t.entries)
		t.byType[msgType] = entry.Command
		t.entries = append(t.entries, entry)
	}
	return nil
}

// Extend returns a new table holding the entries of t followed by the given
// ones. t is left unchanged.
func (t *MessageTable) Extend(entries ...MessageTableEntry) (*MessageTable, error) {
	all := make([]MessageTableEntry, 0, len(t.entries)+len(entries))
	all = append(all, t.entries...)
	all = append(all, entries...)
	return NewMessageTable(all...)
}

// MakeEmptyMessage returns a new message of the type registered for command.
func (t *MessageTable) MakeEmptyMessage(command string) (Message, bool) {
	index, ok := t.byCommand[command]
	if !ok {
		return nil, false
	}
	return t.entries[index].New(), true
}

// CommandFor returns the command a message is sent with. It fails for
// message types that are not registered, including *MsgUnknown.
func (t *MessageTable) CommandFor(msg Message) (string, bool) {
	command, ok := t.byType[reflect.TypeOf(msg)]
	return command, ok
}

// Commands returns the registered commands in registration order.
func (t *MessageTable) Commands() []string {
	commands := make([]string, len(t.entries))
	for i, entry := range t.entries {
		commands[i] = entry.Command
	}
	return commands
}

func mustNewMessageTable(entries ...MessageTableEntry) *MessageTable {
	table, err := NewMessageTable(entries...)
	if err != nil {
		panic(err)
	}
	return table
}

// baseMessageEntries returns the entries of the messages shared by every
// supported chain.
func baseMessageEntries(policy AuxPoWVersionPolicy) []MessageTableEntry {
	return []MessageTableEntry{
		{btcwire.CmdVersion, func() Message { return &btcwire.MsgVersion{} }},
		{btcwire.CmdVerAck, func() Message { return &btcwire.MsgVerAck{} }},
		{btcwire.CmdInv, func() Message { return &btcwire.MsgInv{} }},
		{btcwire.CmdBlock, func() Message { return NewEmptyMsgBlock(policy) }},
		{btcwire.CmdMerkleBlock, func() Message { return NewEmptyMsgMerkleBlock(policy) }},
		{btcwire.CmdGetData, func() Message { return &btcwire.MsgGetData{} }},
		{btcwire.CmdGetBlocks, func() Message { return &btcwire.MsgGetBlocks{} }},
		{btcwire.CmdGetHeaders, func() Message { return &btcwire.MsgGetHeaders{} }},
		{btcwire.CmdTx, func() Message { return &btcwire.MsgTx{} }},
		{btcwire.CmdAddr, func() Message { return &btcwire.MsgAddr{} }},
		{btcwire.CmdPing, func() Message { return &btcwire.MsgPing{} }},
		{btcwire.CmdPong, func() Message { return &btcwire.MsgPong{} }},
		{btcwire.CmdGetAddr, func() Message { return &btcwire.MsgGetAddr{} }},
		{btcwire.CmdHeaders, func() Message { return NewEmptyMsgHeaders(policy) }},
		{CmdAlert, func() Message { return &MsgAlert{} }},
		{btcwire.CmdFilterLoad, func() Message { return &btcwire.MsgFilterLoad{} }},
		{btcwire.CmdNotFound, func() Message { return &btcwire.MsgNotFound{} }},
		{btcwire.CmdMemPool, func() Message { return &btcwire.MsgMemPool{} }},
		{btcwire.CmdReject, func() Message { return &btcwire.MsgReject{} }},
		{CmdUTXOs, func() Message { return &MsgUTXOs{} }},
		{CmdGetUTXOs, func() Message { return &MsgGetUTXOs{} }},
		{btcwire.CmdSendHeaders, func() Message { return &btcwire.MsgSendHeaders{} }},
	}
}

// syscoinMessageEntries returns the entries of the masternode, spork and
// governance messages.
func syscoinMessageEntries() []MessageTableEntry {
	return []MessageTableEntry{
		{CmdSendCmpct, func() Message { return &MsgSendCmpct{} }},
		{CmdMasternodeBroadcast, func() Message { return &MsgMasternodeBroadcast{} }},
		{CmdMasternodePaymentVote, func() Message { return &MsgMasternodePaymentVote{} }},
		{CmdMasternodePing, func() Message { return &MsgMasternodePing{} }},
		{CmdMasternodeVerify, func() Message { return &MsgMasternodeVerify{} }},
		{CmdSpork, func() Message { return &MsgSpork{} }},
		{CmdSyncStatusCount, func() Message { return &MsgSyncStatusCount{} }},
		{CmdGetSporks, func() Message { return &MsgGetSporks{} }},
		{CmdGovernanceSync, func() Message { return &MsgGovernanceSync{} }},
		{CmdGovernanceObject, func() Message { return &MsgGovernanceObject{} }},
		{CmdGovernanceVote, func() Message { return &MsgGovernanceVote{} }},
		{CmdMasternodePaymentSync, func() Message { return &MsgMasternodePaymentSync{} }},
	}
}

// BaseMessageTable returns the table of the bitcoin derived messages spoken
// by every supported chain, with blocks decoded under the given policy.
func BaseMessageTable(policy AuxPoWVersionPolicy) *MessageTable {
	return mustNewMessageTable(baseMessageEntries(policy)...)
}

// SyscoinMessageTable returns the base table extended with the masternode,
// spork and governance messages.
func SyscoinMessageTable(policy AuxPoWVersionPolicy) *MessageTable {
	return mustNewMessageTable(append(baseMessageEntries(policy), syscoinMessageEntries()...)...)
}
