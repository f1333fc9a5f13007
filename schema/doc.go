// Package schema defines the single-table layout for marketplace identity data.
//
// Every item lives in one DynamoDB table addressed by a composite primary key
// (PK, SK) and is tagged with a Type discriminator. Two global secondary
// indexes re-project items for alternate lookups:
//
//	Item                PK               SK                     Index PK                 Index SK
//	User profile        USER#<userID>    PROFILE                EMAIL#<lower(email)>     USER#<userID>   (GSI1)
//	Seller application  USER#<userID>    SELLER_APP#<ts>        SELLER_STATUS#<status>   USER#<userID>   (GSI2)
//	User event          USER#<userID>    EVENT#<ts>             -                        -
//
// Timestamps embedded in sort keys use [FormatTimestamp], a fixed-width UTC
// ISO-8601 form, so lexicographic order equals chronological order.
//
// # Key Builders
//
// All keys are derived through the builders in this package ([UserProfileKey],
// [EmailLookupKey], [SellerAppKey], [SellerStatusKey], [UserEventKey]). Readers
// and writers must never assemble key strings by hand. [SellerAppKeyAt] and
// [UserEventKeyAt] rebuild a key from a timestamp string already held on an item.
//
// # Items
//
// In-process code works with the [Item] variants [Profile], [SellerApplication]
// and [UserEvent]. [Encode] and [Decode] translate between variants and the
// flat attribute maps stored in DynamoDB.
package schema
