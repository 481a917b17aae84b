package gateway

// GraphQL documents for every operation the client issues. Field selections
// stay minimal per screen; the server ignores unknown variables set to nil.

const (
	getGroupsQuery = `
  query GetGroups($limit: Int, $offset: Int, $ownerId: ID, $type: GroupType) {
    groups(limit: $limit, offset: $offset, ownerId: $ownerId, type: $type) {
      id
      name
      description
      slug
      type
      membersCount
      isMember
      createdAt
      owner {
        id
        name
        username
        avatar
      }
    }
  }`

	getGroupBySlugQuery = `
  query GetGroupBySlug($slug: String!, $postLimit: Int, $postOffset: Int) {
    group(slug: $slug) {
      id
      name
      description
      icon
      slug
      type
      membersCount
      isMember
      createdAt
      owner {
        id
        name
        username
        avatar
      }
      posts(limit: $postLimit, offset: $postOffset) {
        id
        title
        content
        createdAt
        commentsCount
        upvotes
        downvotes
        userVote
        author {
          id
          name
          username
          avatar
        }
      }
    }
  }`

	createGroupMutation = `
  mutation CreateGroup($input: NewGroup!) {
    createGroup(input: $input) {
      id
      name
      slug
      type
    }
  }`

	updateGroupMutation = `
  mutation UpdateGroup($groupId: ID!, $name: String, $description: String, $icon: String) {
    updateGroup(groupId: $groupId, name: $name, description: $description, icon: $icon) {
      id
      name
      description
      icon
      slug
    }
  }`

	joinGroupMutation = `
  mutation JoinGroup($groupId: ID!) {
    joinGroup(groupId: $groupId)
  }`

	leaveGroupMutation = `
  mutation LeaveGroup($groupId: ID!) {
    leaveGroup(groupId: $groupId)
  }`

	deleteGroupMutation = `
  mutation DeleteGroup($groupId: ID!) {
    deleteGroup(groupId: $groupId)
  }`

	createPostMutation = `
  mutation CreatePost($input: NewPost!) {
    createPost(input: $input) {
      id
      title
      content
      createdAt
      author {
        id
        name
        username
        avatar
      }
    }
  }`

	updatePostMutation = `
  mutation UpdatePost($postId: ID!, $title: String, $content: String) {
    updatePost(postId: $postId, title: $title, content: $content) {
      id
      title
      content
      isEdited
    }
  }`

	deletePostMutation = `
  mutation DeletePost($postId: ID!) {
    deletePost(postId: $postId)
  }`

	getPostQuery = `
  query GetPost($id: ID!) {
    post(id: $id) {
      id
      title
      content
      createdAt
      commentsCount
      upvotes
      downvotes
      userVote
      author {
        id
        name
        username
        avatar
      }
      group {
        id
        name
        slug
      }
      comments(limit: 20, offset: 0) {
        id
        content
        createdAt
        upvotes
        downvotes
        userVote
        repliesCount
        author {
          id
          name
          username
          avatar
        }
      }
    }
  }`

	getPublicPostsQuery = `
  query GetPublicPosts($limit: Int, $offset: Int) {
    publicPosts(limit: $limit, offset: $offset) {
      id
      title
      content
      createdAt
      commentsCount
      upvotes
      downvotes
      userVote
      author {
        id
        name
        username
        avatar
      }
      group {
        id
        name
        slug
        type
      }
    }
  }`

	getCommentsQuery = `
  query GetComments($postId: ID!, $limit: Int!, $offset: Int!) {
    post(id: $postId) {
      comments(limit: $limit, offset: $offset) {
        id
        content
        createdAt
        upvotes
        downvotes
        userVote
        repliesCount
        author {
          id
          name
          username
          avatar
        }
      }
    }
  }`

	getRepliesQuery = `
  query GetReplies($commentId: ID!, $limit: Int!, $offset: Int!) {
    comment(id: $commentId) {
      replies(limit: $limit, offset: $offset) {
        id
        content
        createdAt
        upvotes
        downvotes
        userVote
        repliesCount
        author {
          id
          name
          username
          avatar
        }
      }
    }
  }`

	createCommentMutation = `
  mutation CreateComment($input: NewComment!) {
    createComment(input: $input) {
      id
      content
      createdAt
      author {
        id
        name
        username
        avatar
      }
    }
  }`

	updateCommentMutation = `
  mutation UpdateComment($commentId: ID!, $content: String!) {
    updateComment(commentId: $commentId, content: $content) {
      id
      content
      isEdited
    }
  }`

	deleteCommentMutation = `
  mutation DeleteComment($commentId: ID!) {
    deleteComment(commentId: $commentId)
  }`

	votePostMutation = `
  mutation VotePost($postId: ID!, $type: VoteType!) {
    votePost(postId: $postId, type: $type) {
      id
      upvotes
      downvotes
      userVote
    }
  }`

	voteCommentMutation = `
  mutation VoteComment($commentId: ID!, $type: VoteType!) {
    voteComment(commentId: $commentId, type: $type) {
      id
      upvotes
      downvotes
      userVote
    }
  }`

	getDiscussionQuery = `
  query GetDiscussion($groupId: ID!) {
    discussion(groupId: $groupId) {
      id
      channels {
        id
        name
        type
      }
    }
  }`

	getChannelMessagesQuery = `
  query GetChannelMessages($channelId: ID!, $limit: Int, $offset: Int) {
    channel(id: $channelId) {
      id
      name
      type
      messages(limit: $limit, offset: $offset) {
        id
        content
        createdAt
        sender {
          id
          name
          username
          avatar
        }
      }
    }
  }`

	sendMessageMutation = `
  mutation SendMessage($input: NewMessage!) {
    sendMessage(input: $input) {
      id
      content
      createdAt
      sender {
        id
        name
        username
        avatar
      }
    }
  }`

	createChannelMutation = `
  mutation CreateChannel($input: NewChannel!) {
    createChannel(input: $input) {
      id
      name
      type
    }
  }`

	getArticlesQuery = `
  query GetArticles($category: String, $limit: Int, $offset: Int, $featured: Boolean) {
    articles(category: $category, limit: $limit, offset: $offset, featured: $featured) {
      id
      title
      slug
      category
      thumbnail
      featured
      description
      author {
        name
        avatar
      }
      createdAt
    }
  }`

	getArticleBySlugQuery = `
  query GetArticleBySlug($slug: String!) {
    articleBySlug(slug: $slug) {
      id
      title
      content
      slug
      category
      thumbnail
      featured
      description
      author {
        id
        name
        avatar
      }
      createdAt
      updatedAt
    }
  }`

	getMeQuery = `
  query GetCurrentUser {
    me {
      id
      username
      displayName
      setupComplete
      isAdmin
    }
  }`

	getPublicUserQuery = `
  query GetPublicUser($username: String!) {
    user(username: $username) {
      id
      username
      displayName
      avatar
      gender
    }
  }`

	getUserPostsQuery = `
  query GetUserPosts($username: String!, $limit: Int, $offset: Int) {
    user(username: $username) {
      id
      posts(limit: $limit, offset: $offset) {
        id
        title
        content
        createdAt
        userVote
        upvotes
        downvotes
        commentsCount
        author {
          id
          username
          displayName
          avatar
        }
        group {
          id
          name
          slug
        }
      }
    }
  }`

	getUserCommentsQuery = `
  query GetUserComments($username: String!, $limit: Int, $offset: Int) {
    user(username: $username) {
      id
      comments(limit: $limit, offset: $offset) {
        id
        content
        createdAt
        userVote
        upvotes
        downvotes
        repliesCount
        author {
          id
          username
          displayName
          avatar
        }
        post {
          id
          title
          group {
            id
            slug
            name
          }
        }
      }
    }
  }`

	getUserGroupsQuery = `
  query GetUserGroups($username: String!) {
    userGroups(username: $username) {
      id
      name
      slug
      description
      membersCount
    }
  }`

	checkUsernameQuery = `
  query CheckUsername($username: String!) {
    checkUsername(username: $username)
  }`

	completeSetupMutation = `
  mutation CompleteSetup($input: CompleteSetupInput!) {
    completeSetup(input: $input)
  }`

	uploadUserImageMutation = `
  mutation UploadUserImage($file: Upload!) {
    uploadUserImage(file: $file)
  }`
)
