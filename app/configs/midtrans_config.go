package configs

import (
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

func (e ENV) MidtransEnvironment() midtrans.EnvironmentType {
	if e.MidtransProduction {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

// NewMidtransClients returns zero clients when MIDTRANS_SERVER_KEY is empty;
// callers treat that as a misconfigured gateway.
func NewMidtransClients(e ENV) (*snap.Client, *coreapi.Client) {
	if e.MidtransServerKey == "" {
		return nil, nil
	}

	var snapClient snap.Client
	snapClient.New(e.MidtransServerKey, e.MidtransEnvironment())

	var coreClient coreapi.Client
	coreClient.New(e.MidtransServerKey, e.MidtransEnvironment())

	return &snapClient, &coreClient
}
