// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package azure lists the subscriptions and resources of the signed in
// account and presents them as a lazily loaded flat tree.
package azure

import (
	"context"
	"fmt"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
)

// Subscription is an Azure subscription the current account can access.
type Subscription struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	TenantId string `json:"tenantId"`
}

// SubscriptionsService lists subscriptions for the current credential.
type SubscriptionsService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewSubscriptionsService(credential azcore.TokenCredential, options *arm.ClientOptions) *SubscriptionsService {
	return &SubscriptionsService{
		credential:       credential,
		armClientOptions: options,
	}
}

// ListSubscriptions returns all subscriptions accessible by the current
// account, sorted by display name.
func (s *SubscriptionsService) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	client, err := armsubscriptions.NewClient(s.credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions client: %w", err)
	}

	subscriptions := []Subscription{}
	pager := client.NewListPager(nil)

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed getting next page of subscriptions: %w", err)
		}

		for _, subscription := range page.SubscriptionListResult.Value {
			subscriptions = append(subscriptions, Subscription{
				Id:       toValue(subscription.SubscriptionID),
				Name:     toValue(subscription.DisplayName),
				TenantId: toValue(subscription.TenantID),
			})
		}
	}

	sort.Slice(subscriptions, func(i, j int) bool {
		return subscriptions[i].Name < subscriptions[j].Name
	})

	return subscriptions, nil
}

func toValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
