// Copyright 2026 Promptstash Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search implements hybrid search over stored prompts.
//
// Exact filters (category, client, status) always apply first, in both
// modes. Keyword mode then matches the query as a case-insensitive
// substring over the text fields and orders by a chosen sort key.
// Semantic mode embeds the query once and ranks by cosine similarity,
// excluding results below a caller threshold; prompts whose stored
// vectors are stale or missing score zero rather than erroring.
//
// Semantic mode degrades silently to keyword mode while the embedding
// model is loading or unreachable, so search is usable from the moment
// a stash opens.
package search
