// Package comms provides types, interfaces, and helpers for working with the
// communications control-plane API: accounts, users, meetings, phone numbers
// and voice connectors.
//
// # Overview
//
// The comms package defines the domain records (Account, User, Meeting,
// PhoneNumber, VoiceConnector), one request type per operation, and the
// resource client interfaces (AccountsClient, MeetingsClient, ...). The
// concrete implementation lives in the commsclient package, which wires
// configuration, credentials, signing and transport:
//
//	cli, err := commsclient.New(&comms.Config{Region: "us-east-1"})
//	if err != nil { log.Fatal(err) }
//
//	account, err := cli.Accounts().Get(ctx, &comms.GetAccountRequest{AccountID: "acct-1"})
//
// Every call is synchronous and self-contained: credentials are resolved,
// the request is encoded, signed and sent, and the response is decoded before
// the method returns. A client is safe for concurrent use.
//
// # Per-call credentials
//
// Each request embeds CallOptions. Setting Credentials there signs that one
// call with the given keys instead of the client's provider.
//
// # Pagination
//
// List calls return one page. Use CollectAll or PaginationIterator to walk
// NextToken:
//
//	all, err := comms.CollectAll(ctx, func(ctx context.Context, token string) (*comms.ListResponse[comms.Account], error) {
//	  return cli.Accounts().List(ctx, &comms.ListAccountsRequest{ListParams: comms.ListParams{NextToken: token}})
//	}, comms.DefaultPaginationOptions())
//
// # Errors
//
// Every failure is an *Error with a closed ErrorKind. Remote kinds come from
// the service's error discriminator; anything unrecognised is KindGeneric and
// local failures are KindClient. Branch with errors.Is against the sentinels
// (ErrNotFound, ErrThrottledClient, ...) or with helpers such as IsNotFound.
//
// # Instrumentation
//
// Config.Instrumentation receives an Event per call phase. MetricsCollector is
// an in-memory sink; the instrument package adds Prometheus and NATS sinks.
package comms
