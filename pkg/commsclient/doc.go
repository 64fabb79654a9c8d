// Package commsclient is the entry point for creating control-plane clients.
//
// New fills in defaults for anything left empty in comms.Config and returns a
// comms.Client backed by the request executor:
//
//	client, err := commsclient.New(&comms.Config{
//		Endpoint: "service.chime.aws.amazon.com",
//		Profile:  "work",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	meetings, err := client.Meetings().List(ctx, nil)
//
// The helpers NewWithStaticCredentials and NewWithProfile cover the two most
// common credential setups.
package commsclient
