// Package goalfolio is the analytics engine of a personal investment
// dashboard. It takes a list of holdings and a list of savings goals and
// computes profit and loss, annualized performance, portfolio analytics and
// goal progress.
//
// The core functionalities include:
//   - Records: [Holding] and [Goal] values with stable ids, validated at
//     construction, and a [Store] that keeps them in an opaque [BlobStore].
//   - Portfolio metrics: [ComputeMetrics], [ComputePerformance] and
//     [ComputeAnalytics], fed by any [PriceSource].
//   - Goal progress: [ComputeProgress], [Recommendations] and goal templates.
//   - Import/Export: CSV, a sectioned text file and an xlsx workbook that
//     all satisfy Import(Export(x)) == x.
//
// Engines return plain structs and never render anything; the `gf` command
// line tool and the renderer package are the presentation layer.
package goalfolio
