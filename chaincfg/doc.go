/*
Package chaincfg defines the parameters of the altcoin networks understood by
this module.

Each network is described by a Params value. Params carries what is needed to
parse and validate headers of the network: the magic bytes, the proof of work
limit and hash function, the retarget schedule, the merged mining chain ID and
AuxPoW version policy, checkpoints and the table of wire messages the network
speaks. Params implements wire.ChainRules, so it can be handed directly to
wire.MsgBlock.CheckProofOfWork.

The Dogecoin main, test and regression test networks and the Syscoin main and
test networks are registered when the package is initialized. Other networks
can be added with Register and looked up with ParamsForNet or ParamsByName:

	params, err := chaincfg.ParamsForNet(net)
	if err != nil {
		return err
	}
	msg, _, err := wire.ReadMessage(conn, params.ProtocolVersion, params.Net,
		params.MessageTable)
*/
package chaincfg
