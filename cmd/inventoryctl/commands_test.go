package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/sheets"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	policy := economics.DefaultPolicy()
	products := []inventory.Product{
		{ProductID: "DOCK001", Name: "USB Dock, 7-port", Quantity: 7, Price: 59.5, Category: "Accessories", Status: inventory.StatusLowStock},
		{ProductID: "CAM002", Name: "Action Camera", Quantity: 30, Price: 249, Category: "Electronics", Status: inventory.StatusInStock},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, products))
	assert.Contains(t, buf.String(), "Product ID,Product Name,Quantity,Price,Category,Status,Last Updated\n")

	got, err := sheets.ParseCSV(&buf, policy)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "USB Dock, 7-port", got[0].Name)
	assert.Equal(t, 249.0, got[1].Price)
}
